// Package file reads and writes Music objects in every supported on-disk
// format, dispatching on the file extension. JSON and YAML are the lossless
// canonical forms; MIDI, MusicXML and ABC go through their adapters.
package file

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quaverlab/quaver/abc"
	"github.com/quaverlab/quaver/midi"
	"github.com/quaverlab/quaver/music"
	"github.com/quaverlab/quaver/musicxml"
)

// Format names as stored in Metadata.SourceFormat and accepted by Convert.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMIDI     = "midi"
	FormatMusicXML = "musicxml"
	FormatABC      = "abc"
)

var extFormats = map[string]string{
	".json":     FormatJSON,
	".yaml":     FormatYAML,
	".yml":      FormatYAML,
	".mid":      FormatMIDI,
	".midi":     FormatMIDI,
	".xml":      FormatMusicXML,
	".musicxml": FormatMusicXML,
	".abc":      FormatABC,
}

// FormatOf maps a path to its format name, or "" when unsupported.
func FormatOf(path string) string {
	return extFormats[strings.ToLower(filepath.Ext(path))]
}

// ReadJSON decodes the canonical JSON form.
func ReadJSON(r io.Reader) (*music.Music, error) {
	var m music.Music
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("bad music json: %w", err)
	}
	if m.Resolution == 0 {
		m.Resolution = music.DefaultResolution
	}
	return &m, nil
}

// WriteJSON encodes the canonical JSON form, indented for diffability.
func WriteJSON(w io.Writer, m *music.Music) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadYAML decodes the canonical YAML form.
func ReadYAML(r io.Reader) (*music.Music, error) {
	var m music.Music
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("bad music yaml: %w", err)
	}
	if m.Resolution == 0 {
		m.Resolution = music.DefaultResolution
	}
	return &m, nil
}

// WriteYAML encodes the canonical YAML form.
func WriteYAML(w io.Writer, m *music.Music) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(m)
}

// Read parses any supported file into a Music object.
func Read(path string) (*music.Music, error) {
	format := FormatOf(path)
	switch format {
	case FormatMIDI:
		return midi.Read(path)
	case FormatMusicXML:
		return musicxml.Read(path)
	case FormatABC:
		return abc.Read(path)
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m *music.Music
	if format == FormatJSON {
		m, err = ReadJSON(f)
	} else {
		m, err = ReadYAML(f)
	}
	if err != nil {
		return nil, err
	}
	m.Metadata.SourceFilename = path
	m.Metadata.SourceFormat = format
	return m, nil
}

// Write renders a Music object to any supported file.
func Write(m *music.Music, path string) error {
	switch format := FormatOf(path); format {
	case FormatMIDI:
		return midi.Write(m, path)
	case FormatMusicXML:
		return musicxml.Write(m, path)
	case FormatABC:
		return abc.Write(m, path)
	case FormatJSON, FormatYAML:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if format == FormatJSON {
			return WriteJSON(f, m)
		}
		return WriteYAML(f, m)
	default:
		return fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

// GatherPaths walks root collecting every supported music file, up to maxNum
// (0 = unlimited), in walk order.
func GatherPaths(root string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || FormatOf(s) == "" {
			return nil
		}
		if maxNum > 0 && len(res) >= maxNum {
			return fs.SkipAll
		}
		res = append(res, s)
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, err
	}
	return res, nil
}
