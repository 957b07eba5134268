package repr

import (
	"golang.org/x/exp/constraints"

	"github.com/quaverlab/quaver/music"
)

// PianoRollConfig tunes the piano-roll codec.
type PianoRollConfig struct {
	// EncodeVelocity paints each note with its velocity instead of 1.
	EncodeVelocity bool
	// Resolution of the piece built by DecodePianoRoll; DefaultResolution
	// if 0.
	Resolution int
}

// EncodePianoRoll renders the piece as a (time steps x 128 pitches) matrix.
// Different pitches never collide; overlapping notes of the same pitch keep
// the maximum value at shared steps.
func EncodePianoRoll[T constraints.Signed](m *music.Music, cfg PianoRollConfig) ([][]T, error) {
	notes, err := gatherNotes(m)
	if err != nil {
		return nil, err
	}
	length := 0
	for _, n := range notes {
		if n.End() > length {
			length = n.End()
		}
	}
	roll := make([][]T, length)
	for i := range roll {
		roll[i] = make([]T, 128)
	}
	for _, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 {
			continue
		}
		value := T(1)
		if cfg.EncodeVelocity {
			value = T(n.Velocity)
		}
		for i := n.Time; i < n.End(); i++ {
			if roll[i][n.Pitch] < value {
				roll[i][n.Pitch] = value
			}
		}
	}
	return roll, nil
}

// DecodePianoRoll turns each maximal contiguous non-zero run in a pitch row
// back into one note. In velocity mode the note takes the value at the run's
// first step; in binary mode it takes DefaultVelocity.
func DecodePianoRoll[T constraints.Signed](roll [][]T, cfg PianoRollConfig) *music.Music {
	var notes []music.Note
	for pitch := 0; pitch < 128; pitch++ {
		start := -1
		for i := 0; i <= len(roll); i++ {
			sounding := i < len(roll) && pitch < len(roll[i]) && roll[i][pitch] != 0
			if sounding && start < 0 {
				start = i
			}
			if !sounding && start >= 0 {
				vel := music.DefaultVelocity
				if cfg.EncodeVelocity {
					vel = int(roll[start][pitch])
				}
				notes = append(notes, music.Note{
					Time:     start,
					Duration: i - start,
					Pitch:    pitch,
					Velocity: vel,
				})
				start = -1
			}
		}
	}
	m := singleTrack(notes, cfg.Resolution)
	m.Tracks[0].Sort()
	return m
}
