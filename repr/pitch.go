package repr

import (
	"golang.org/x/exp/constraints"

	"github.com/quaverlab/quaver/music"
)

// PitchConfig tunes the pitch-based codec.
type PitchConfig struct {
	// UseHoldState writes HoldCode for every sustained step after a note's
	// onset instead of repeating the pitch.
	UseHoldState bool
	// Resolution of the piece built by DecodePitch; DefaultResolution if 0.
	Resolution int
}

// EncodePitch renders the piece as a monophonic step sequence: one code per
// time step holding a pitch (0-127), RestCode, or HoldCode. Polyphony is
// resolved by the documented lossy policy: notes are painted in canonical
// sort order and later notes overwrite earlier ones at shared steps.
func EncodePitch[T constraints.Signed](m *music.Music, cfg PitchConfig) ([]T, error) {
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
	rest, hold := RestCode, HoldCode
	seq := make([]T, length)
	for i := range seq {
		seq[i] = T(rest)
	}
	for _, n := range notes {
		if n.Duration <= 0 {
			continue
		}
		seq[n.Time] = T(n.Pitch)
		for i := n.Time + 1; i < n.End(); i++ {
			if cfg.UseHoldState {
				seq[i] = T(hold)
			} else {
				seq[i] = T(n.Pitch)
			}
		}
	}
	return seq, nil
}

// DecodePitch rebuilds notes from a pitch sequence. Without hold state, a
// maximal run of one pitch value becomes a single note, so back-to-back
// repeats of the same pitch merge. Velocities are not represented and come
// back as DefaultVelocity.
func DecodePitch[T constraints.Signed](seq []T, cfg PitchConfig) *music.Music {
	var notes []music.Note
	open := -1 // start step of the sounding note, -1 when resting
	pitch := 0 // pitch of the sounding note

	closeAt := func(end int) {
		if open >= 0 {
			notes = append(notes, music.Note{
				Time:     open,
				Duration: end - open,
				Pitch:    pitch,
				Velocity: music.DefaultVelocity,
			})
			open = -1
		}
	}

	for i, code := range seq {
		v := int(code)
		switch {
		case v >= 0 && v <= 127:
			if cfg.UseHoldState || open < 0 || pitch != v {
				closeAt(i)
				open, pitch = i, v
			}
		case v == HoldCode && cfg.UseHoldState:
			// sustains the open note; a dangling hold is ignored
		default:
			// RestCode and anything unrecognized end the note
			closeAt(i)
		}
	}
	closeAt(len(seq))
	return singleTrack(notes, cfg.Resolution)
}
