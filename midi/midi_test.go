package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quaverlab/quaver/music"
)

func TestVarLenRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, 127, 128, 500000, 0x0FFFFFFF} {
		data := writeVarLen(v)
		got, n := readVarLen(data)
		assert.Equal(t, v, got)
		assert.Equal(t, len(data), n)
	}
}

func TestQPMToMicroseconds(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint32(500000), qpmToMicroseconds(120))
	assert.Equal(uint32(1000000), qpmToMicroseconds(60))
	// non-positive tempo falls back to the default
	assert.Equal(uint32(500000), qpmToMicroseconds(0))
}

func TestMetaText(t *testing.T) {
	msg := metaMessage(metaLyric, []byte("la"))
	assert.Equal(t, "la", metaText(msg, metaLyric))
	assert.Equal(t, "", metaText(msg, metaMarker))
}

func TestEncodeRejectsBadResolution(t *testing.T) {
	m := music.New(24)
	m.Resolution = 0
	_, err := Encode(m)
	assert.Error(t, err)

	_, err = Encode(nil)
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fifths := 2
	m := music.New(96)
	m.Metadata.Title = "Round Trip"
	m.Tempos = []music.Tempo{{QPM: 120}}
	m.TimeSignatures = []music.TimeSignature{{Numerator: 3, Denominator: 4}}
	m.KeySignatures = []music.KeySignature{{Fifths: &fifths, Mode: "minor"}}
	m.Lyrics = []music.Lyric{{Time: 0, Lyric: "la"}}
	m.Annotations = []music.Annotation{{Time: 96, Annotation: "verse", Group: "marker"}}
	m.Tracks = []music.Track{
		{Program: 5, Name: "Lead", Notes: []music.Note{
			{Time: 0, Duration: 96, Pitch: 60, Velocity: 100},
			{Time: 96, Duration: 48, Pitch: 64, Velocity: 80},
		}},
		{IsDrum: true, Name: "Drums", Notes: []music.Note{
			{Time: 0, Duration: 24, Pitch: 36, Velocity: 90},
		}},
	}

	data, err := Encode(m)
	assert.NoError(t, err)

	got, err := FromBytes(data)
	assert.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(96, got.Resolution)
	assert.Equal("Round Trip", got.Metadata.Title)
	assert.Equal("midi", got.Metadata.SourceFormat)
	assert.Equal(m.Tempos, got.Tempos)
	assert.Equal(m.TimeSignatures, got.TimeSignatures)
	assert.Equal(m.KeySignatures, got.KeySignatures)
	assert.Equal(m.Lyrics, got.Lyrics)
	assert.Equal(m.Annotations, got.Annotations)

	assert.Len(got.Tracks, 2)
	lead := got.Tracks[0]
	assert.Equal(5, lead.Program)
	assert.False(lead.IsDrum)
	assert.Equal("Lead", lead.Name)
	assert.Equal(m.Tracks[0].Notes, lead.Notes)

	drums := got.Tracks[1]
	assert.True(drums.IsDrum)
	assert.Equal(m.Tracks[1].Notes, drums.Notes)
}

func TestDecodePairsOverlappingSamePitch(t *testing.T) {
	// two ons before any off must pair first-on-first-off
	m := music.New(24)
	m.Tracks = []music.Track{{Notes: []music.Note{
		{Time: 0, Duration: 12, Pitch: 60, Velocity: 100},
		{Time: 6, Duration: 12, Pitch: 60, Velocity: 90},
	}}}

	data, err := Encode(m)
	assert.NoError(t, err)

	got, err := FromBytes(data)
	assert.NoError(t, err)
	assert.Equal(t, []music.Note{
		{Time: 0, Duration: 12, Pitch: 60, Velocity: 100},
		{Time: 6, Duration: 12, Pitch: 60, Velocity: 90},
	}, got.Tracks[0].Notes)
}

func TestFromBytesRejectsGarbage(t *testing.T) {
	_, err := FromBytes([]byte("not a midi file"))
	assert.Error(t, err)
}

func TestFromBytesTruncatedInputErrorsInsteadOfCrashing(t *testing.T) {
	header := []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 1, 0, 1, 0, 0x60}
	inputs := [][]byte{
		nil,
		header,
		append(append([]byte{}, header...), 'M', 'T', 'r', 'k', 0, 0, 0, 8, 0x00, 0x90),
	}
	for _, in := range inputs {
		m, err := FromBytes(in)
		if err == nil {
			assert.NotNil(t, m)
		}
	}
}

func TestDecodeRejectsNil(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)
}
