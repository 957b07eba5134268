package repr

import (
	"golang.org/x/exp/constraints"

	"github.com/quaverlab/quaver/canon"
	"github.com/quaverlab/quaver/music"
)

// EventConfig tunes the event-based codec. The zero value gives the common
// 388-code vocabulary: 128 note-ons, 128 note-offs, 100 time shifts and 32
// velocity buckets.
type EventConfig struct {
	// UseSingleNoteOffEvent collapses the 128 note-off codes into one code
	// that closes every open note.
	UseSingleNoteOffEvent bool
	// UseEndOfSequenceEvent appends one trailing end-of-sequence code.
	UseEndOfSequenceEvent bool
	// NumTimeShifts is the count of time-shift codes; code k advances the
	// cursor by k+1 steps. Defaults to 100.
	NumTimeShifts int
	// NumVelocityBins quantizes 0-127 into equal-width buckets. Defaults
	// to 32.
	NumVelocityBins int
	// Resolution of the piece built by DecodeEvent; DefaultResolution if 0.
	Resolution int
}

func (c EventConfig) numTimeShifts() int {
	if c.NumTimeShifts <= 0 {
		return 100
	}
	return c.NumTimeShifts
}

func (c EventConfig) numVelocityBins() int {
	if c.NumVelocityBins <= 0 {
		return 32
	}
	return c.NumVelocityBins
}

func (c EventConfig) numNoteOffs() int {
	if c.UseSingleNoteOffEvent {
		return 1
	}
	return 128
}

// Code block offsets within the vocabulary. Note-ons occupy [0, 128).
func (c EventConfig) offBase() int  { return 128 }
func (c EventConfig) timeBase() int { return 128 + c.numNoteOffs() }
func (c EventConfig) velBase() int  { return c.timeBase() + c.numTimeShifts() }
func (c EventConfig) eosCode() int  { return c.velBase() + c.numVelocityBins() }

// VocabSize is the total number of distinct event codes.
func (c EventConfig) VocabSize() int {
	n := c.eosCode()
	if c.UseEndOfSequenceEvent {
		n++
	}
	return n
}

func (c EventConfig) binWidth() int {
	w := 128 / c.numVelocityBins()
	if w < 1 {
		w = 1
	}
	return w
}

type noteEvent struct {
	time  int
	pitch int
	vel   int
	off   bool
}

// SortKey merges all tracks into one stream: ascending time, note-ons
// before note-offs at the same step, then ascending pitch. This ordering is
// load-bearing for training-data reproducibility; do not "fix" it.
func (e noteEvent) SortKey() []int {
	off := 0
	if e.off {
		off = 1
	}
	return []int{e.time, off, e.pitch}
}

// appendShift emits the time-shift chain covering a gap of d steps.
func appendShift[T constraints.Signed](seq []T, cfg EventConfig, d int) []T {
	max := cfg.numTimeShifts()
	for d > 0 {
		step := d
		if step > max {
			step = max
		}
		seq = append(seq, T(cfg.timeBase()+step-1))
		d -= step
	}
	return seq
}

// EncodeEvent flattens the piece into a stream of event codes. A velocity
// code is emitted before a note-on whenever the note's bucket differs from
// the previous one.
func EncodeEvent[T constraints.Signed](m *music.Music, cfg EventConfig) ([]T, error) {
	notes, err := gatherNotes(m)
	if err != nil {
		return nil, err
	}
	events := make([]noteEvent, 0, 2*len(notes))
	for _, n := range notes {
		events = append(events,
			noteEvent{time: n.Time, pitch: n.Pitch, vel: n.Velocity},
			noteEvent{time: n.End(), pitch: n.Pitch, off: true},
		)
	}
	canon.Sort(events, noteEvent.SortKey)

	var seq []T
	cursor := 0
	lastBin := -1
	for _, e := range events {
		seq = appendShift(seq, cfg, e.time-cursor)
		cursor = e.time
		if e.off {
			if cfg.UseSingleNoteOffEvent {
				seq = append(seq, T(cfg.offBase()))
			} else {
				seq = append(seq, T(cfg.offBase()+e.pitch))
			}
			continue
		}
		bin := e.vel / cfg.binWidth()
		if bin >= cfg.numVelocityBins() {
			bin = cfg.numVelocityBins() - 1
		}
		if bin != lastBin {
			seq = append(seq, T(cfg.velBase()+bin))
			lastBin = bin
		}
		seq = append(seq, T(e.pitch))
	}
	if cfg.UseEndOfSequenceEvent {
		seq = append(seq, T(cfg.eosCode()))
	}
	return seq, nil
}

// DecodeEvent replays an event stream against an open-note table. An
// unmatched note-off is ignored; a note still open at the end of the stream
// is dropped. Both cases are silent and deterministic.
func DecodeEvent[T constraints.Signed](seq []T, cfg EventConfig) *music.Music {
	var notes []music.Note
	type openNote struct {
		time int
		vel  int
	}
	open := make(map[int]openNote, 128)
	cursor := 0
	velocity := music.DefaultVelocity

	closeNote := func(pitch int) {
		if on, ok := open[pitch]; ok {
			notes = append(notes, music.Note{
				Time:     on.time,
				Duration: cursor - on.time,
				Pitch:    pitch,
				Velocity: on.vel,
			})
			delete(open, pitch)
		}
	}

	for _, code := range seq {
		v := int(code)
		switch {
		case v < 0:
			// not a known code; skip
		case v < cfg.offBase():
			// a second note-on for an open pitch closes it at the cursor
			closeNote(v)
			open[v] = openNote{time: cursor, vel: velocity}
		case v < cfg.timeBase():
			if cfg.UseSingleNoteOffEvent {
				for pitch := range open {
					closeNote(pitch)
				}
			} else {
				closeNote(v - cfg.offBase())
			}
		case v < cfg.velBase():
			cursor += v - cfg.timeBase() + 1
		case v < cfg.eosCode():
			bin := v - cfg.velBase()
			velocity = bin*cfg.binWidth() + cfg.binWidth()/2
		case cfg.UseEndOfSequenceEvent && v == cfg.eosCode():
			// terminal; open notes are discarded below anyway
		}
	}
	// open notes at end of stream are incomplete and dropped
	canon.Sort(notes, music.Note.SortKey)
	return singleTrack(notes, cfg.Resolution)
}
