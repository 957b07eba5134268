// Package music defines the in-memory representation of a piece of symbolic
// music: a Music object owning tempos, key and time signatures, beats,
// lyrics, annotations and instrument tracks, all timed in integer steps.
package music

import (
	"fmt"

	"github.com/quaverlab/quaver/canon"
)

// SchemaVersion is written into Metadata of every piece this toolkit builds.
const SchemaVersion = "0.1"

// DefaultResolution is the number of time steps per quarter note used when
// a source format does not state one.
const DefaultResolution = 24

// DefaultQPM is the tempo assumed when a piece has no tempo marks.
const DefaultQPM = 120.0

// Music is the root aggregate. Lists are time-ascending by convention; call
// Sort to enforce it. Instances are independent: nothing here touches
// process-wide state, so distinct instances are safe to use concurrently.
type Music struct {
	Metadata       Metadata        `json:"metadata" yaml:"metadata"`
	Resolution     int             `json:"resolution" yaml:"resolution"`
	Tempos         []Tempo         `json:"tempos,omitempty" yaml:"tempos,omitempty"`
	KeySignatures  []KeySignature  `json:"key_signatures,omitempty" yaml:"key_signatures,omitempty"`
	TimeSignatures []TimeSignature `json:"time_signatures,omitempty" yaml:"time_signatures,omitempty"`
	Beats          []Beat          `json:"beats,omitempty" yaml:"beats,omitempty"`
	Lyrics         []Lyric         `json:"lyrics,omitempty" yaml:"lyrics,omitempty"`
	Annotations    []Annotation    `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Tracks         []Track         `json:"tracks,omitempty" yaml:"tracks,omitempty"`
}

// New returns an empty piece at the given resolution (DefaultResolution if
// res is zero or negative).
func New(res int) *Music {
	if res <= 0 {
		res = DefaultResolution
	}
	return &Music{
		Metadata:   Metadata{SchemaVersion: SchemaVersion},
		Resolution: res,
	}
}

// Append adds the item to the list matching its type.
func (m *Music) Append(item any) error {
	switch v := item.(type) {
	case Tempo:
		m.Tempos = append(m.Tempos, v)
	case KeySignature:
		m.KeySignatures = append(m.KeySignatures, v)
	case TimeSignature:
		m.TimeSignatures = append(m.TimeSignatures, v)
	case Beat:
		m.Beats = append(m.Beats, v)
	case Lyric:
		m.Lyrics = append(m.Lyrics, v)
	case Annotation:
		m.Annotations = append(m.Annotations, v)
	case Track:
		m.Tracks = append(m.Tracks, v)
	default:
		return fmt.Errorf("cannot append %T to a Music object", item)
	}
	return nil
}

// IsValid checks the root's own fields only.
func (m Music) IsValid() bool {
	return m.Resolution > 0 && m.Metadata.IsValid()
}

// Shift adds offset to every time field in the piece, recursively.
func (m *Music) Shift(offset int) {
	for i := range m.Tempos {
		m.Tempos[i].Shift(offset)
	}
	for i := range m.KeySignatures {
		m.KeySignatures[i].Shift(offset)
	}
	for i := range m.TimeSignatures {
		m.TimeSignatures[i].Shift(offset)
	}
	for i := range m.Beats {
		m.Beats[i].Shift(offset)
	}
	for i := range m.Lyrics {
		m.Lyrics[i].Shift(offset)
	}
	for i := range m.Annotations {
		m.Annotations[i].Shift(offset)
	}
	for i := range m.Tracks {
		m.Tracks[i].Shift(offset)
	}
}

// Transpose moves every pitch in every track by the given semitones.
func (m *Music) Transpose(semitones int) {
	for i := range m.Tracks {
		m.Tracks[i].Transpose(semitones)
	}
}

// ClipVelocity clamps every velocity in every track into [lo, hi].
func (m *Music) ClipVelocity(lo, hi int) {
	for i := range m.Tracks {
		m.Tracks[i].ClipVelocity(lo, hi)
	}
}

// EndTime returns the largest note or chord end across all tracks.
func (m Music) EndTime() int {
	var end int
	for _, t := range m.Tracks {
		if t.EndTime() > end {
			end = t.EndTime()
		}
	}
	return end
}

// Empty reports whether no track has any note or chord.
func (m Music) Empty() bool {
	for _, t := range m.Tracks {
		if len(t.Notes) > 0 || len(t.Chords) > 0 {
			return false
		}
	}
	return true
}

// Equal reports field-for-field equality across the whole object graph.
func (m Music) Equal(o Music) bool {
	if m.Resolution != o.Resolution || !m.Metadata.Equal(o.Metadata) {
		return false
	}
	if len(m.Tempos) != len(o.Tempos) || len(m.KeySignatures) != len(o.KeySignatures) ||
		len(m.TimeSignatures) != len(o.TimeSignatures) || len(m.Beats) != len(o.Beats) ||
		len(m.Lyrics) != len(o.Lyrics) || len(m.Annotations) != len(o.Annotations) ||
		len(m.Tracks) != len(o.Tracks) {
		return false
	}
	for i := range m.Tempos {
		if m.Tempos[i] != o.Tempos[i] {
			return false
		}
	}
	for i := range m.KeySignatures {
		if !m.KeySignatures[i].Equal(o.KeySignatures[i]) {
			return false
		}
	}
	for i := range m.TimeSignatures {
		if m.TimeSignatures[i] != o.TimeSignatures[i] {
			return false
		}
	}
	for i := range m.Beats {
		if m.Beats[i] != o.Beats[i] {
			return false
		}
	}
	for i := range m.Lyrics {
		if m.Lyrics[i] != o.Lyrics[i] {
			return false
		}
	}
	for i := range m.Annotations {
		if !m.Annotations[i].Equal(o.Annotations[i]) {
			return false
		}
	}
	for i := range m.Tracks {
		if !m.Tracks[i].Equal(o.Tracks[i]) {
			return false
		}
	}
	return true
}

// Sort canonically orders every list in the piece.
func (m *Music) Sort() {
	canon.Sort(m.Tempos, Tempo.SortKey)
	canon.Sort(m.KeySignatures, KeySignature.SortKey)
	canon.Sort(m.TimeSignatures, TimeSignature.SortKey)
	canon.Sort(m.Beats, Beat.SortKey)
	canon.Sort(m.Lyrics, Lyric.SortKey)
	canon.Sort(m.Annotations, Annotation.SortKey)
	for i := range m.Tracks {
		m.Tracks[i].Sort()
	}
}

// RemoveDuplicate sorts, then drops field-for-field repeats everywhere.
func (m *Music) RemoveDuplicate() {
	m.Sort()
	m.Tempos = canon.RemoveDuplicate(m.Tempos, func(a, b Tempo) bool { return a == b })
	m.KeySignatures = canon.RemoveDuplicate(m.KeySignatures, KeySignature.Equal)
	m.TimeSignatures = canon.RemoveDuplicate(m.TimeSignatures, func(a, b TimeSignature) bool { return a == b })
	m.Beats = canon.RemoveDuplicate(m.Beats, func(a, b Beat) bool { return a == b })
	m.Lyrics = canon.RemoveDuplicate(m.Lyrics, func(a, b Lyric) bool { return a == b })
	m.Annotations = canon.RemoveDuplicate(m.Annotations, Annotation.Equal)
	for i := range m.Tracks {
		m.Tracks[i].RemoveDuplicate()
	}
}

// RemoveInvalid drops invalid items from every list, preserving order.
// Each track's contents are filtered first; tracks whose own fields are
// invalid are then dropped outright, so no list holds an invalid item
// afterwards.
func (m *Music) RemoveInvalid() {
	m.Tempos = canon.RemoveInvalid(m.Tempos, Tempo.IsValid)
	m.KeySignatures = canon.RemoveInvalid(m.KeySignatures, KeySignature.IsValid)
	m.TimeSignatures = canon.RemoveInvalid(m.TimeSignatures, TimeSignature.IsValid)
	m.Beats = canon.RemoveInvalid(m.Beats, Beat.IsValid)
	m.Lyrics = canon.RemoveInvalid(m.Lyrics, Lyric.IsValid)
	m.Annotations = canon.RemoveInvalid(m.Annotations, Annotation.IsValid)
	for i := range m.Tracks {
		m.Tracks[i].RemoveInvalid()
	}
	m.Tracks = canon.RemoveInvalid(m.Tracks, Track.IsValid)
}

// scaleTime rescales t from one resolution to another, rounding to nearest.
func scaleTime(t, from, to int) int {
	if t >= 0 {
		return (t*to + from/2) / from
	}
	return -((-t*to + from/2) / from)
}

// AdjustResolution rescales every time and duration to a new resolution,
// rounding to the nearest step.
func (m *Music) AdjustResolution(target int) error {
	if target <= 0 {
		return fmt.Errorf("invalid target resolution %d", target)
	}
	if m.Resolution <= 0 {
		return fmt.Errorf("cannot adjust resolution of a piece with resolution %d", m.Resolution)
	}
	if target == m.Resolution {
		return nil
	}
	from := m.Resolution
	for i := range m.Tempos {
		m.Tempos[i].Time = scaleTime(m.Tempos[i].Time, from, target)
	}
	for i := range m.KeySignatures {
		m.KeySignatures[i].Time = scaleTime(m.KeySignatures[i].Time, from, target)
	}
	for i := range m.TimeSignatures {
		m.TimeSignatures[i].Time = scaleTime(m.TimeSignatures[i].Time, from, target)
	}
	for i := range m.Beats {
		m.Beats[i].Time = scaleTime(m.Beats[i].Time, from, target)
	}
	for i := range m.Lyrics {
		m.Lyrics[i].Time = scaleTime(m.Lyrics[i].Time, from, target)
	}
	for i := range m.Annotations {
		m.Annotations[i].Time = scaleTime(m.Annotations[i].Time, from, target)
	}
	for i := range m.Tracks {
		t := &m.Tracks[i]
		for j := range t.Notes {
			end := scaleTime(t.Notes[j].End(), from, target)
			t.Notes[j].Time = scaleTime(t.Notes[j].Time, from, target)
			t.Notes[j].SetEnd(end)
		}
		for j := range t.Chords {
			end := scaleTime(t.Chords[j].End(), from, target)
			t.Chords[j].Time = scaleTime(t.Chords[j].Time, from, target)
			t.Chords[j].SetEnd(end)
		}
		for j := range t.Lyrics {
			t.Lyrics[j].Time = scaleTime(t.Lyrics[j].Time, from, target)
		}
		for j := range t.Annotations {
			t.Annotations[j].Time = scaleTime(t.Annotations[j].Time, from, target)
		}
	}
	m.Resolution = target
	return nil
}
