package repr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quaverlab/quaver/music"
)

func TestEventVocabSize(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(388, EventConfig{}.VocabSize())
	assert.Equal(262, EventConfig{
		UseSingleNoteOffEvent: true,
		UseEndOfSequenceEvent: true,
	}.VocabSize())
}

func TestEncodeEventSingleNote(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 0, Duration: 2, Pitch: 60, Velocity: 64})
	cfg := EventConfig{}
	seq, err := EncodeEvent[int](m, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	// velocity bucket 16, note-on 60, time shift of 2 steps, note-off 60
	assert.Equal([]int{356 + 16, 60, 256 + 1, 128 + 60}, seq)
}

func TestEventRoundTripQuantizesVelocityToBucketCenter(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 0, Duration: 2, Pitch: 60, Velocity: 64})
	cfg := EventConfig{Resolution: 24}
	seq, err := EncodeEvent[int](m, cfg)
	assert.NoError(t, err)

	got := DecodeEvent(seq, cfg)
	assert.Equal(t, []music.Note{{Time: 0, Duration: 2, Pitch: 60, Velocity: 66}},
		got.Tracks[0].Notes)
}

func TestEncodeEventChainsTimeShifts(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 250, Duration: 1, Pitch: 60, Velocity: 0})
	seq, err := EncodeEvent[int](m, EventConfig{})

	assert := assert.New(t)
	assert.NoError(err)
	// gap of 250 = 100 + 100 + 50 with the default 100 shift codes
	assert.Equal([]int{256 + 99, 256 + 99, 256 + 49, 356, 60, 256, 128 + 60}, seq)
}

func TestEncodeEventEmitsVelocityOnlyOnBucketChange(t *testing.T) {
	m := singleNotePiece(
		music.Note{Time: 0, Duration: 1, Pitch: 60, Velocity: 64},
		music.Note{Time: 1, Duration: 1, Pitch: 62, Velocity: 65},
		music.Note{Time: 2, Duration: 1, Pitch: 64, Velocity: 100},
	)
	seq, err := EncodeEvent[int](m, EventConfig{})

	assert := assert.New(t)
	assert.NoError(err)
	velCodes := 0
	for _, c := range seq {
		if c >= 356 && c < 388 {
			velCodes++
		}
	}
	// 64 and 65 share bucket 16; 100 lands in bucket 25
	assert.Equal(2, velCodes)
}

func TestEncodeEventRequiresNotes(t *testing.T) {
	m := music.New(24)
	_, err := EncodeEvent[int](m, EventConfig{})

	assert.ErrorIs(t, err, ErrNoNotes)
}

func TestEncodeEventEndOfSequence(t *testing.T) {
	m := singleNotePiece(music.Note{Time: 0, Duration: 1, Pitch: 60, Velocity: 64})
	cfg := EventConfig{UseEndOfSequenceEvent: true}
	seq, err := EncodeEvent[int](m, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(cfg.eosCode(), seq[len(seq)-1])
}

func TestDecodeEventIgnoresUnmatchedNoteOff(t *testing.T) {
	got := DecodeEvent([]int{128 + 60, 256, 60, 256, 128 + 60}, EventConfig{})

	assert.Equal(t,
		[]music.Note{{Time: 1, Duration: 1, Pitch: 60, Velocity: music.DefaultVelocity}},
		got.Tracks[0].Notes)
}

func TestDecodeEventDropsNotesLeftOpen(t *testing.T) {
	got := DecodeEvent([]int{60, 256 + 9}, EventConfig{})

	assert.Empty(t, got.Tracks[0].Notes)
}

func TestDecodeEventRestartsOpenPitch(t *testing.T) {
	// a second note-on for an open pitch closes the first at the cursor
	got := DecodeEvent([]int{60, 256, 60, 256 + 1, 128 + 60}, EventConfig{})

	assert.Equal(t, []music.Note{
		{Time: 0, Duration: 1, Pitch: 60, Velocity: music.DefaultVelocity},
		{Time: 1, Duration: 2, Pitch: 60, Velocity: music.DefaultVelocity},
	}, got.Tracks[0].Notes)
}

func TestSingleNoteOffClosesEverything(t *testing.T) {
	m := singleNotePiece(
		music.Note{Time: 0, Duration: 2, Pitch: 60, Velocity: 64},
		music.Note{Time: 0, Duration: 2, Pitch: 64, Velocity: 64},
	)
	cfg := EventConfig{UseSingleNoteOffEvent: true}
	seq, err := EncodeEvent[int](m, cfg)
	assert.NoError(t, err)

	got := DecodeEvent(seq, cfg)
	assert.Equal(t, []music.Note{
		{Time: 0, Duration: 2, Pitch: 60, Velocity: 66},
		{Time: 0, Duration: 2, Pitch: 64, Velocity: 66},
	}, got.Tracks[0].Notes)
}

func TestEventMergeOrderIsOnBeforeOffThenPitch(t *testing.T) {
	// note B ends exactly when note A starts; the on for A must precede
	// the off for B in the stream
	m := singleNotePiece(
		music.Note{Time: 2, Duration: 2, Pitch: 60, Velocity: 64},
		music.Note{Time: 0, Duration: 2, Pitch: 64, Velocity: 64},
	)
	seq, err := EncodeEvent[int](m, EventConfig{})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]int{356 + 16, 64, 256 + 1, 60, 128 + 64, 256 + 1, 128 + 60}, seq)
}
