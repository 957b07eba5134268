// Package dataset manages a local collection of music files for training
// pipelines: a manifest of entries built by scanning a directory, with
// on-access conversion to Music objects.
package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/quaverlab/quaver/file"
	"github.com/quaverlab/quaver/music"
	"github.com/quaverlab/quaver/util"
)

// ManifestFilename is the conventional manifest name inside a dataset root.
const ManifestFilename = "manifest.dat"

// Entry is one source file in the dataset.
type Entry struct {
	ID     string
	Path   string
	Format string
}

// Manifest lists every entry found under a dataset root.
type Manifest struct {
	Root    string
	Entries []Entry
}

// Scan walks root for supported music files (maxNum 0 = unlimited) and
// assigns each a fresh ID.
func Scan(root string, maxNum int) (*Manifest, error) {
	paths, err := file.GatherPaths(root, maxNum)
	if err != nil {
		return nil, fmt.Errorf("could not scan %v: %w", root, err)
	}
	m := &Manifest{Root: root}
	for _, p := range paths {
		m.Entries = append(m.Entries, Entry{
			ID:     uuid.New().String(),
			Path:   p,
			Format: file.FormatOf(p),
		})
	}
	return m, nil
}

// Len reports the number of entries.
func (m *Manifest) Len() int {
	return len(m.Entries)
}

// Music parses entry i into a Music object. Conversion happens on access;
// the manifest stores only paths.
func (m *Manifest) Music(i int) (*music.Music, error) {
	if i < 0 || i >= len(m.Entries) {
		return nil, fmt.Errorf("entry %d out of range [0, %d)", i, len(m.Entries))
	}
	return file.Read(m.Entries[i].Path)
}

// Save writes the manifest into its root directory.
func (m *Manifest) Save() error {
	return util.CreateBinary(filepath.Join(m.Root, ManifestFilename), m)
}

// Load reads a manifest previously saved under root.
func Load(root string) (*Manifest, error) {
	m, err := util.ReadBinary[Manifest](filepath.Join(root, ManifestFilename))
	if err != nil {
		return nil, err
	}
	return &m, nil
}
