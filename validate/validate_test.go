package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quaverlab/quaver/music"
)

func pieceWithBadPitch() *music.Music {
	m := music.New(24)
	m.Tracks = []music.Track{{Notes: []music.Note{
		{Time: 0, Duration: 2, Pitch: 60, Velocity: 64},
		{Time: 2, Duration: 2, Pitch: 200, Velocity: 64},
	}}}
	return m
}

func TestOutOfRangePitchIsConstructibleButInvalid(t *testing.T) {
	m := pieceWithBadPitch()
	vs, err := Check(m)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(vs, 1)
	assert.Equal("tracks[0].notes[1]", vs[0].Path)
	assert.Contains(vs[0].Msg, "pitch 200")

	valid, err := IsValid(m)
	assert.NoError(err)
	assert.False(valid)
}

func TestRemoveInvalidDropsExactlyTheBadNote(t *testing.T) {
	m := pieceWithBadPitch()
	removed, err := RemoveInvalid(m)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(1, removed)
	assert.Len(m.Tracks[0].Notes, 1)
	assert.Equal(60, m.Tracks[0].Notes[0].Pitch)

	valid, err := IsValid(m)
	assert.NoError(err)
	assert.True(valid)
}

func TestRemoveInvalidDropsTrackWithBadProgram(t *testing.T) {
	m := music.New(24)
	m.Tracks = []music.Track{{Program: 200}}
	removed, err := RemoveInvalid(m)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(1, removed)
	assert.Empty(m.Tracks)

	valid, err := IsValid(m)
	assert.NoError(err)
	assert.True(valid)
}

func TestCheckErrsOnlyForStructuralUnusability(t *testing.T) {
	assert := assert.New(t)

	_, err := Check(nil)
	assert.ErrorIs(err, ErrUnusable)

	m := pieceWithBadPitch()
	m.Resolution = 0
	_, err = Check(m)
	assert.ErrorIs(err, ErrUnusable)
}

func TestInconsistentKeySignatureIsReportedNotRaised(t *testing.T) {
	fifths := 3
	m := music.New(24)
	m.KeySignatures = []music.KeySignature{{Time: 0, RootStr: "G", Fifths: &fifths}}
	vs, err := Check(m)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(vs, 1)
	assert.Equal("key_signatures[0]", vs[0].Path)
	assert.Contains(vs[0].Msg, "disagrees")
}

func TestOutOfRangeKeyRootIsNamedSpecifically(t *testing.T) {
	root := 15
	m := music.New(24)
	m.KeySignatures = []music.KeySignature{{Time: 0, Root: &root}}
	vs, err := Check(m)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(vs, 1)
	assert.Contains(vs[0].Msg, "root 15 out of range")

	fifths := 9
	m.KeySignatures = []music.KeySignature{{Time: 0, Fifths: &fifths}}
	vs, err = Check(m)
	assert.NoError(err)
	assert.Len(vs, 1)
	assert.Contains(vs[0].Msg, "fifths 9 out of range")
}

func TestNegativeTimesAreViolations(t *testing.T) {
	m := music.New(24)
	m.Tempos = []music.Tempo{{Time: -1, QPM: 120}}
	m.Lyrics = []music.Lyric{{Time: 0, Lyric: ""}}
	vs, err := Check(m)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(vs, 2)
}
