package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quaverlab/quaver/music"
)

func samplePiece() *music.Music {
	m := music.New(24)
	m.Metadata.Title = "Sample"
	m.Tempos = []music.Tempo{{QPM: 120}}
	m.TimeSignatures = []music.TimeSignature{{Numerator: 4, Denominator: 4}}
	m.Tracks = []music.Track{{
		Program: 0,
		Name:    "Lead",
		Notes: []music.Note{
			{Time: 0, Duration: 12, Pitch: 60, Velocity: 64},
			{Time: 12, Duration: 12, Pitch: 64, Velocity: 72},
		},
	}}
	return m
}

func TestFormatOf(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(FormatJSON, FormatOf("a/b/song.json"))
	assert.Equal(FormatYAML, FormatOf("song.YML"))
	assert.Equal(FormatMIDI, FormatOf("song.mid"))
	assert.Equal(FormatMusicXML, FormatOf("song.musicxml"))
	assert.Equal(FormatABC, FormatOf("song.abc"))
	assert.Equal("", FormatOf("song.wav"))
}

func TestJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "piece.json")
	m := samplePiece()

	assert.NoError(t, Write(m, path))
	got, err := Read(path)
	assert.NoError(t, err)

	assert.Equal(t, path, got.Metadata.SourceFilename)
	assert.Equal(t, FormatJSON, got.Metadata.SourceFormat)
	assert.Equal(t, m.Resolution, got.Resolution)
	assert.Equal(t, m.Tempos, got.Tempos)
	assert.Equal(t, m.Tracks, got.Tracks)
}

func TestYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "piece.yaml")
	m := samplePiece()

	assert.NoError(t, Write(m, path))
	got, err := Read(path)
	assert.NoError(t, err)

	assert.Equal(t, FormatYAML, got.Metadata.SourceFormat)
	assert.Equal(t, m.Resolution, got.Resolution)
	assert.Equal(t, m.TimeSignatures, got.TimeSignatures)
	assert.Equal(t, m.Tracks, got.Tracks)
}

func TestMIDIRoundTripThroughDispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "piece.mid")
	m := samplePiece()

	assert.NoError(t, Write(m, path))
	got, err := Read(path)
	assert.NoError(t, err)

	assert.Equal(t, FormatMIDI, got.Metadata.SourceFormat)
	assert.Equal(t, m.Tracks[0].Notes, got.Tracks[0].Notes)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Read("song.wav")
	assert.Error(t, err)

	assert.Error(t, Write(samplePiece(), "song.wav"))
}

func TestGatherPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.mid", "c.txt", "sub/d.abc"} {
		path := filepath.Join(dir, name)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		assert.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	paths, err := GatherPaths(dir, 0)
	assert.NoError(t, err)
	assert.Len(t, paths, 3)

	paths, err = GatherPaths(dir, 2)
	assert.NoError(t, err)
	assert.Len(t, paths, 2)
}
