// Package repr converts between a Music object and the fixed-shape numeric
// arrays a training pipeline consumes. Four codecs are provided: pitch-based,
// event-based, piano-roll and note-based. All are pure transforms; the
// element type parameter plays the role of the array dtype.
package repr

import (
	"errors"

	"github.com/quaverlab/quaver/canon"
	"github.com/quaverlab/quaver/music"
)

// ErrNoNotes is returned when encoding a piece that has no notes at all.
// A silent zero-length array would hide a caller mistake.
var ErrNoNotes = errors.New("no notes to encode")

// Special pitch-based codes beyond the 0-127 pitch values.
const (
	RestCode = 128
	HoldCode = 129
)

// gatherNotes flattens every track into one canonically sorted note list
// (time, pitch, duration, velocity ascending). Chords are expanded into
// their member notes. Returns ErrNoNotes when nothing is playable.
func gatherNotes(m *music.Music) ([]music.Note, error) {
	var notes []music.Note
	for _, t := range m.Tracks {
		notes = append(notes, t.Notes...)
		for _, c := range t.Chords {
			for _, p := range c.Pitches {
				notes = append(notes, music.Note{
					Time:     c.Time,
					Duration: c.Duration,
					Pitch:    p,
					Velocity: c.Velocity,
				})
			}
		}
	}
	if len(notes) == 0 {
		return nil, ErrNoNotes
	}
	canon.Sort(notes, music.Note.SortKey)
	return notes, nil
}

func resolutionOr(res int) int {
	if res <= 0 {
		return music.DefaultResolution
	}
	return res
}

// singleTrack wraps decoded notes into a fresh piece with one piano track.
func singleTrack(notes []music.Note, resolution int) *music.Music {
	m := music.New(resolutionOr(resolution))
	m.Tracks = []music.Track{{Program: 0, Notes: notes}}
	return m
}
