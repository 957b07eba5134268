package music

// DefaultVelocity is assigned when a source carries no velocity
// information (binary piano rolls, pitch sequences, ABC tunes).
const DefaultVelocity = 64

func inMIDIRange(v int) bool {
	return v >= 0 && v <= 127
}

// Note is a single played pitch in time steps.
type Note struct {
	Time     int `json:"time" yaml:"time"`
	Duration int `json:"duration" yaml:"duration"`
	Pitch    int `json:"pitch" yaml:"pitch"`
	Velocity int `json:"velocity" yaml:"velocity"`
}

// End returns the step at which the note stops sounding. End is always
// derived so Time+Duration can never drift from it.
func (n Note) End() int {
	return n.Time + n.Duration
}

// SetEnd moves the end of the note by recomputing Duration; Time is kept.
func (n *Note) SetEnd(end int) {
	n.Duration = end - n.Time
}

func (n Note) IsValid() bool {
	return n.Time >= 0 &&
		n.Duration >= 0 &&
		inMIDIRange(n.Pitch) &&
		inMIDIRange(n.Velocity)
}

func (n *Note) Shift(offset int) {
	n.Time += offset
}

// SortKey orders notes by (time, pitch, duration, velocity).
func (n Note) SortKey() []int {
	return []int{n.Time, n.Pitch, n.Duration, n.Velocity}
}

// Chord is a set of distinct pitches sharing one onset, duration and velocity.
type Chord struct {
	Time     int   `json:"time" yaml:"time"`
	Duration int   `json:"duration" yaml:"duration"`
	Pitches  []int `json:"pitches" yaml:"pitches"`
	Velocity int   `json:"velocity" yaml:"velocity"`
}

func (c Chord) End() int {
	return c.Time + c.Duration
}

func (c *Chord) SetEnd(end int) {
	c.Duration = end - c.Time
}

func (c Chord) IsValid() bool {
	if c.Time < 0 || c.Duration < 0 || !inMIDIRange(c.Velocity) {
		return false
	}
	if len(c.Pitches) == 0 {
		return false
	}
	seen := make(map[int]bool, len(c.Pitches))
	for _, p := range c.Pitches {
		if !inMIDIRange(p) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

func (c *Chord) Shift(offset int) {
	c.Time += offset
}

// SortKey orders chords by (time, lowest pitch, duration, velocity).
func (c Chord) SortKey() []int {
	lowest := 128
	for _, p := range c.Pitches {
		if p < lowest {
			lowest = p
		}
	}
	return []int{c.Time, lowest, c.Duration, c.Velocity}
}

func (c Chord) Equal(o Chord) bool {
	if c.Time != o.Time || c.Duration != o.Duration || c.Velocity != o.Velocity {
		return false
	}
	if len(c.Pitches) != len(o.Pitches) {
		return false
	}
	for i := range c.Pitches {
		if c.Pitches[i] != o.Pitches[i] {
			return false
		}
	}
	return true
}
