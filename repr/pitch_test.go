package repr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quaverlab/quaver/music"
)

func singleNotePiece(notes ...music.Note) *music.Music {
	m := music.New(24)
	m.Tracks = []music.Track{{Notes: notes}}
	return m
}

func TestEncodePitchRepeatsWithoutHoldState(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 0, Duration: 4, Pitch: 60, Velocity: 100})
	seq, err := EncodePitch[int](m, PitchConfig{})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]int{60, 60, 60, 60}, seq)
}

func TestEncodePitchUsesHoldState(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 0, Duration: 4, Pitch: 60, Velocity: 100})
	seq, err := EncodePitch[int](m, PitchConfig{UseHoldState: true})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]int{60, 129, 129, 129}, seq)
}

func TestEncodePitchWritesRests(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 2, Duration: 2, Pitch: 72, Velocity: 100})
	seq, err := EncodePitch[int](m, PitchConfig{})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]int{128, 128, 72, 72}, seq)
}

func TestEncodePitchLastNoteInSortOrderWins(t *testing.T) {
	m := singleNotePiece(
		music.Note{Time: 0, Duration: 2, Pitch: 62, Velocity: 100},
		music.Note{Time: 0, Duration: 2, Pitch: 60, Velocity: 100},
	)
	seq, err := EncodePitch[int](m, PitchConfig{})

	assert := assert.New(t)
	assert.NoError(err)
	// canonical sort puts 60 first, so 62 overwrites it
	assert.Equal([]int{62, 62}, seq)
}

func TestEncodePitchRequiresNotes(t *testing.T) {
	m := music.New(24)
	m.Tracks = []music.Track{{}}
	_, err := EncodePitch[int](m, PitchConfig{})

	assert.ErrorIs(t, err, ErrNoNotes)
}

func TestDecodePitchRoundTrip(t *testing.T) {
	for _, hold := range []bool{false, true} {
		m := singleNotePiece(
			music.Note{Time: 0, Duration: 4, Pitch: 60, Velocity: music.DefaultVelocity},
			music.Note{Time: 6, Duration: 2, Pitch: 62, Velocity: music.DefaultVelocity},
		)
		cfg := PitchConfig{UseHoldState: hold, Resolution: 24}
		seq, err := EncodePitch[int](m, cfg)
		assert.NoError(t, err)

		got := DecodePitch(seq, cfg)
		assert.Equal(t, m.Tracks[0].Notes, got.Tracks[0].Notes)
	}
}

func TestDecodePitchSplitsRepeatsOnlyWithHoldState(t *testing.T) {
	assert := assert.New(t)

	// without hold state a repeated onset merges into one long note
	got := DecodePitch([]int{60, 60, 60, 60}, PitchConfig{})
	assert.Equal([]music.Note{{Time: 0, Duration: 4, Pitch: 60, Velocity: music.DefaultVelocity}},
		got.Tracks[0].Notes)

	// with hold state a fresh pitch value is a fresh onset
	got = DecodePitch([]int{60, 129, 60, 129}, PitchConfig{UseHoldState: true})
	assert.Equal([]music.Note{
		{Time: 0, Duration: 2, Pitch: 60, Velocity: music.DefaultVelocity},
		{Time: 2, Duration: 2, Pitch: 60, Velocity: music.DefaultVelocity},
	}, got.Tracks[0].Notes)
}
