package repr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quaverlab/quaver/music"
)

func TestPianoRollShape(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 2, Duration: 3, Pitch: 60, Velocity: 100})
	roll, err := EncodePianoRoll[int](m, PianoRollConfig{})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(roll, 5)
	assert.Len(roll[0], 128)
	assert.Equal(0, roll[1][60])
	assert.Equal(1, roll[2][60])
	assert.Equal(1, roll[4][60])
}

func TestPianoRollSamePitchOverlapTakesMaxVelocity(t *testing.T) {
	m := singleNotePiece(
		music.Note{Time: 0, Duration: 4, Pitch: 60, Velocity: 50},
		music.Note{Time: 2, Duration: 4, Pitch: 60, Velocity: 90},
	)
	roll, err := EncodePianoRoll[int](m, PianoRollConfig{EncodeVelocity: true})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(50, roll[0][60])
	assert.Equal(50, roll[1][60])
	assert.Equal(90, roll[2][60])
	assert.Equal(90, roll[3][60])
	assert.Equal(90, roll[5][60])
}

func TestPianoRollDifferentPitchesCoexist(t *testing.T) {
	m := singleNotePiece(
		music.Note{Time: 0, Duration: 2, Pitch: 60, Velocity: 80},
		music.Note{Time: 0, Duration: 2, Pitch: 64, Velocity: 90},
	)
	roll, err := EncodePianoRoll[int](m, PianoRollConfig{EncodeVelocity: true})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(80, roll[0][60])
	assert.Equal(90, roll[0][64])
}

func TestPianoRollRequiresNotes(t *testing.T) {
	m := music.New(24)
	_, err := EncodePianoRoll[int](m, PianoRollConfig{})

	assert.ErrorIs(t, err, ErrNoNotes)
}

func TestDecodePianoRollExtractsRuns(t *testing.T) {
	m := singleNotePiece(
		music.Note{Time: 0, Duration: 2, Pitch: 60, Velocity: 80},
		music.Note{Time: 4, Duration: 2, Pitch: 60, Velocity: 90},
		music.Note{Time: 1, Duration: 3, Pitch: 72, Velocity: 70},
	)
	cfg := PianoRollConfig{EncodeVelocity: true, Resolution: 24}
	roll, err := EncodePianoRoll[int](m, cfg)
	assert.NoError(t, err)

	got := DecodePianoRoll(roll, cfg)
	assert.Equal(t, []music.Note{
		{Time: 0, Duration: 2, Pitch: 60, Velocity: 80},
		{Time: 1, Duration: 3, Pitch: 72, Velocity: 70},
		{Time: 4, Duration: 2, Pitch: 60, Velocity: 90},
	}, got.Tracks[0].Notes)
}

func TestDecodePianoRollBinaryUsesDefaultVelocity(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 0, Duration: 3, Pitch: 60, Velocity: 100})
	cfg := PianoRollConfig{Resolution: 24}
	roll, err := EncodePianoRoll[int](m, cfg)
	assert.NoError(t, err)

	got := DecodePianoRoll(roll, cfg)
	assert.Equal(t,
		[]music.Note{{Time: 0, Duration: 3, Pitch: 60, Velocity: music.DefaultVelocity}},
		got.Tracks[0].Notes)
}
