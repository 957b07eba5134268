package music

import "github.com/quaverlab/quaver/canon"

// Track is one instrument's worth of events. A track belongs to exactly one
// Music object; tracks never share note slices.
type Track struct {
	Program     int          `json:"program" yaml:"program"`
	IsDrum      bool         `json:"is_drum" yaml:"is_drum"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Notes       []Note       `json:"notes,omitempty" yaml:"notes,omitempty"`
	Chords      []Chord      `json:"chords,omitempty" yaml:"chords,omitempty"`
	Lyrics      []Lyric      `json:"lyrics,omitempty" yaml:"lyrics,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// IsValid checks the track's own fields only; list items are validated
// individually.
func (t Track) IsValid() bool {
	return inMIDIRange(t.Program)
}

func (t *Track) Shift(offset int) {
	for i := range t.Notes {
		t.Notes[i].Shift(offset)
	}
	for i := range t.Chords {
		t.Chords[i].Shift(offset)
	}
	for i := range t.Lyrics {
		t.Lyrics[i].Shift(offset)
	}
	for i := range t.Annotations {
		t.Annotations[i].Shift(offset)
	}
}

// Transpose moves every note and chord by the given number of semitones.
// Pitches may leave the MIDI range; validation reports them afterwards.
func (t *Track) Transpose(semitones int) {
	for i := range t.Notes {
		t.Notes[i].Pitch += semitones
	}
	for i := range t.Chords {
		for j := range t.Chords[i].Pitches {
			t.Chords[i].Pitches[j] += semitones
		}
	}
}

// ClipVelocity clamps every note and chord velocity into [lo, hi].
func (t *Track) ClipVelocity(lo, hi int) {
	clip := func(v int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	for i := range t.Notes {
		t.Notes[i].Velocity = clip(t.Notes[i].Velocity)
	}
	for i := range t.Chords {
		t.Chords[i].Velocity = clip(t.Chords[i].Velocity)
	}
}

// EndTime returns the largest note or chord end in the track.
func (t Track) EndTime() int {
	var end int
	for _, n := range t.Notes {
		if n.End() > end {
			end = n.End()
		}
	}
	for _, c := range t.Chords {
		if c.End() > end {
			end = c.End()
		}
	}
	return end
}

// Sort canonically orders every list the track owns.
func (t *Track) Sort() {
	canon.Sort(t.Notes, Note.SortKey)
	canon.Sort(t.Chords, Chord.SortKey)
	canon.Sort(t.Lyrics, Lyric.SortKey)
	canon.Sort(t.Annotations, Annotation.SortKey)
}

// RemoveDuplicate drops field-for-field repeats after sorting.
func (t *Track) RemoveDuplicate() {
	t.Sort()
	t.Notes = canon.RemoveDuplicate(t.Notes, func(a, b Note) bool { return a == b })
	t.Chords = canon.RemoveDuplicate(t.Chords, Chord.Equal)
	t.Lyrics = canon.RemoveDuplicate(t.Lyrics, func(a, b Lyric) bool { return a == b })
	t.Annotations = canon.RemoveDuplicate(t.Annotations, Annotation.Equal)
}

// Equal reports field-for-field equality, including every owned list.
func (t Track) Equal(o Track) bool {
	if t.Program != o.Program || t.IsDrum != o.IsDrum || t.Name != o.Name {
		return false
	}
	if len(t.Notes) != len(o.Notes) || len(t.Chords) != len(o.Chords) ||
		len(t.Lyrics) != len(o.Lyrics) || len(t.Annotations) != len(o.Annotations) {
		return false
	}
	for i := range t.Notes {
		if t.Notes[i] != o.Notes[i] {
			return false
		}
	}
	for i := range t.Chords {
		if !t.Chords[i].Equal(o.Chords[i]) {
			return false
		}
	}
	for i := range t.Lyrics {
		if t.Lyrics[i] != o.Lyrics[i] {
			return false
		}
	}
	for i := range t.Annotations {
		if !t.Annotations[i].Equal(o.Annotations[i]) {
			return false
		}
	}
	return true
}

// RemoveInvalid filters out items that fail their own validity check,
// preserving order.
func (t *Track) RemoveInvalid() {
	t.Notes = canon.RemoveInvalid(t.Notes, Note.IsValid)
	t.Chords = canon.RemoveInvalid(t.Chords, Chord.IsValid)
	t.Lyrics = canon.RemoveInvalid(t.Lyrics, Lyric.IsValid)
	t.Annotations = canon.RemoveInvalid(t.Annotations, Annotation.IsValid)
}
