// Package validate reports semantic problems in a Music object graph.
// Invalid data is a reportable state, not an error: Check only fails when a
// structural field makes the object unusable for any operation.
package validate

import (
	"errors"
	"fmt"

	"github.com/quaverlab/quaver/music"
)

// Violation locates one semantic problem, e.g.
// {Path: "tracks[2].notes[5]", Msg: "pitch 200 out of range [0, 127]"}.
type Violation struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Msg
}

// ErrUnusable marks a piece that no operation can work with, as opposed to
// one that merely contains invalid entries.
var ErrUnusable = errors.New("music object is structurally unusable")

// Check walks the whole piece and collects every violation. It errors only
// for a nil piece or a non-positive resolution.
func Check(m *music.Music) ([]Violation, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil music", ErrUnusable)
	}
	if m.Resolution <= 0 {
		return nil, fmt.Errorf("%w: resolution %d", ErrUnusable, m.Resolution)
	}
	var vs []Violation
	if m.Metadata.SchemaVersion == "" {
		vs = append(vs, Violation{"metadata", "missing schema_version"})
	}
	for i, t := range m.Tempos {
		vs = appendTempo(vs, fmt.Sprintf("tempos[%d]", i), t)
	}
	for i, k := range m.KeySignatures {
		vs = appendKeySignature(vs, fmt.Sprintf("key_signatures[%d]", i), k)
	}
	for i, t := range m.TimeSignatures {
		vs = appendTimeSignature(vs, fmt.Sprintf("time_signatures[%d]", i), t)
	}
	for i, b := range m.Beats {
		vs = appendTimed(vs, fmt.Sprintf("beats[%d]", i), b.Time)
	}
	for i, l := range m.Lyrics {
		vs = appendLyric(vs, fmt.Sprintf("lyrics[%d]", i), l)
	}
	for i, a := range m.Annotations {
		vs = appendAnnotation(vs, fmt.Sprintf("annotations[%d]", i), a)
	}
	for i, t := range m.Tracks {
		vs = appendTrack(vs, fmt.Sprintf("tracks[%d]", i), t)
	}
	return vs, nil
}

// IsValid reports whether the piece has no violations at all.
func IsValid(m *music.Music) (bool, error) {
	vs, err := Check(m)
	if err != nil {
		return false, err
	}
	return len(vs) == 0, nil
}

// RemoveInvalid drops every invalid item from every list in place, tracks
// with invalid own fields included, preserving order, and reports how many
// items were removed.
func RemoveInvalid(m *music.Music) (int, error) {
	if m == nil {
		return 0, fmt.Errorf("%w: nil music", ErrUnusable)
	}
	before := countItems(m)
	m.RemoveInvalid()
	return before - countItems(m), nil
}

func countItems(m *music.Music) int {
	n := len(m.Tempos) + len(m.KeySignatures) + len(m.TimeSignatures) +
		len(m.Beats) + len(m.Lyrics) + len(m.Annotations) + len(m.Tracks)
	for _, t := range m.Tracks {
		n += len(t.Notes) + len(t.Chords) + len(t.Lyrics) + len(t.Annotations)
	}
	return n
}

func appendTimed(vs []Violation, path string, time int) []Violation {
	if time < 0 {
		vs = append(vs, Violation{path, fmt.Sprintf("time %d is negative", time)})
	}
	return vs
}

func rangeMsg(field string, v int) string {
	return fmt.Sprintf("%s %d out of range [0, 127]", field, v)
}

func appendNote(vs []Violation, path string, n music.Note) []Violation {
	vs = appendTimed(vs, path, n.Time)
	if n.Duration < 0 {
		vs = append(vs, Violation{path, fmt.Sprintf("duration %d is negative", n.Duration)})
	}
	if n.Pitch < 0 || n.Pitch > 127 {
		vs = append(vs, Violation{path, rangeMsg("pitch", n.Pitch)})
	}
	if n.Velocity < 0 || n.Velocity > 127 {
		vs = append(vs, Violation{path, rangeMsg("velocity", n.Velocity)})
	}
	return vs
}

func appendChord(vs []Violation, path string, c music.Chord) []Violation {
	vs = appendTimed(vs, path, c.Time)
	if c.Duration < 0 {
		vs = append(vs, Violation{path, fmt.Sprintf("duration %d is negative", c.Duration)})
	}
	if c.Velocity < 0 || c.Velocity > 127 {
		vs = append(vs, Violation{path, rangeMsg("velocity", c.Velocity)})
	}
	if len(c.Pitches) == 0 {
		vs = append(vs, Violation{path, "chord has no pitches"})
	}
	seen := make(map[int]bool, len(c.Pitches))
	for _, p := range c.Pitches {
		if p < 0 || p > 127 {
			vs = append(vs, Violation{path, rangeMsg("pitch", p)})
		}
		if seen[p] {
			vs = append(vs, Violation{path, fmt.Sprintf("pitch %d repeated in chord", p)})
		}
		seen[p] = true
	}
	return vs
}

func appendTempo(vs []Violation, path string, t music.Tempo) []Violation {
	vs = appendTimed(vs, path, t.Time)
	if t.QPM <= 0 {
		vs = append(vs, Violation{path, fmt.Sprintf("qpm %v is not positive", t.QPM)})
	}
	return vs
}

func appendKeySignature(vs []Violation, path string, k music.KeySignature) []Violation {
	vs = appendTimed(vs, path, k.Time)
	// per-field range checks come first so a bad value is named even when
	// it also makes the root unresolvable
	if k.Root != nil && (*k.Root < 0 || *k.Root > 11) {
		vs = append(vs, Violation{path, fmt.Sprintf("root %d out of range [0, 11]", *k.Root)})
	}
	if k.Fifths != nil && (*k.Fifths < -7 || *k.Fifths > 7) {
		vs = append(vs, Violation{path, fmt.Sprintf("fifths %d out of range [-7, 7]", *k.Fifths)})
	}
	if k.RootStr != "" {
		if _, ok := music.PitchClassOf(k.RootStr); !ok {
			vs = append(vs, Violation{path, fmt.Sprintf("unreadable root_str %q", k.RootStr)})
		}
	}
	root, ok := k.ResolveRoot()
	if !ok {
		if k.Root == nil && k.RootStr == "" && k.Fifths == nil {
			vs = append(vs, Violation{path, "no resolvable root (need root, root_str or fifths)"})
		}
		return vs
	}
	if k.RootStr != "" {
		if class, ok := music.PitchClassOf(k.RootStr); ok && class != root {
			vs = append(vs, Violation{path, fmt.Sprintf("root_str %q disagrees with root %d", k.RootStr, root)})
		}
	}
	if k.Fifths != nil && *k.Fifths >= -7 && *k.Fifths <= 7 {
		if fromFifths, _ := (music.KeySignature{Fifths: k.Fifths, Mode: k.Mode}).ResolveRoot(); fromFifths != root {
			vs = append(vs, Violation{path, fmt.Sprintf("fifths %d disagrees with root %d", *k.Fifths, root)})
		}
	}
	return vs
}

func appendTimeSignature(vs []Violation, path string, t music.TimeSignature) []Violation {
	vs = appendTimed(vs, path, t.Time)
	if t.Numerator <= 0 {
		vs = append(vs, Violation{path, fmt.Sprintf("numerator %d is not positive", t.Numerator)})
	}
	if t.Denominator <= 0 {
		vs = append(vs, Violation{path, fmt.Sprintf("denominator %d is not positive", t.Denominator)})
	}
	return vs
}

func appendLyric(vs []Violation, path string, l music.Lyric) []Violation {
	vs = appendTimed(vs, path, l.Time)
	if l.Lyric == "" {
		vs = append(vs, Violation{path, "empty lyric text"})
	}
	return vs
}

func appendAnnotation(vs []Violation, path string, a music.Annotation) []Violation {
	vs = appendTimed(vs, path, a.Time)
	if a.Annotation == nil {
		vs = append(vs, Violation{path, "nil annotation payload"})
	}
	return vs
}

func appendTrack(vs []Violation, path string, t music.Track) []Violation {
	if t.Program < 0 || t.Program > 127 {
		vs = append(vs, Violation{path, rangeMsg("program", t.Program)})
	}
	for i, n := range t.Notes {
		vs = appendNote(vs, fmt.Sprintf("%s.notes[%d]", path, i), n)
	}
	for i, c := range t.Chords {
		vs = appendChord(vs, fmt.Sprintf("%s.chords[%d]", path, i), c)
	}
	for i, l := range t.Lyrics {
		vs = appendLyric(vs, fmt.Sprintf("%s.lyrics[%d]", path, i), l)
	}
	for i, a := range t.Annotations {
		vs = appendAnnotation(vs, fmt.Sprintf("%s.annotations[%d]", path, i), a)
	}
	return vs
}
