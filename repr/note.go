package repr

import (
	"golang.org/x/exp/constraints"

	"github.com/quaverlab/quaver/music"
)

// NoteConfig tunes the note-based codec.
type NoteConfig struct {
	// UseStartEnd emits (pitch, start, end, velocity) rows instead of
	// (pitch, time, duration, velocity).
	UseStartEnd bool
	// Resolution of the piece built by DecodeNote; DefaultResolution if 0.
	Resolution int
}

// EncodeNote flattens the piece into an N x 4 array, one row per note, in
// canonical (time, pitch, duration, velocity) order. This is the only codec
// that is fully lossless for note data; track identity and program are
// still discarded.
func EncodeNote[T constraints.Signed](m *music.Music, cfg NoteConfig) ([][4]T, error) {
	notes, err := gatherNotes(m)
	if err != nil {
		return nil, err
	}
	rows := make([][4]T, len(notes))
	for i, n := range notes {
		third := n.Duration
		if cfg.UseStartEnd {
			third = n.End()
		}
		rows[i] = [4]T{T(n.Pitch), T(n.Time), T(third), T(n.Velocity)}
	}
	return rows, nil
}

// DecodeNote rebuilds one track from note rows.
func DecodeNote[T constraints.Signed](rows [][4]T, cfg NoteConfig) *music.Music {
	notes := make([]music.Note, len(rows))
	for i, r := range rows {
		n := music.Note{
			Pitch:    int(r[0]),
			Time:     int(r[1]),
			Velocity: int(r[3]),
		}
		if cfg.UseStartEnd {
			n.SetEnd(int(r[2]))
		} else {
			n.Duration = int(r[2])
		}
		notes[i] = n
	}
	m := singleTrack(notes, cfg.Resolution)
	m.Tracks[0].Sort()
	return m
}
