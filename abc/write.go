package abc

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/quaverlab/quaver/canon"
	"github.com/quaverlab/quaver/music"
)

// sharpNames spells each pitch class with sharps, the simpler choice for a
// thin writer.
var sharpNames = [12]string{"C", "^C", "D", "^D", "E", "F", "^F", "G", "^G", "A", "^A", "B"}

var rootNames = [12]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// noteToken spells a MIDI number in ABC: uppercase letters for the octave
// starting at middle C, lowercase one octave up, commas and apostrophes
// beyond.
func noteToken(pitch int) string {
	name := sharpNames[((pitch%12)+12)%12]
	octave := pitch/12 - 1 // MIDI 60 is octave 4
	var b strings.Builder
	accidental := ""
	if name[0] == '^' {
		accidental = "^"
		name = name[1:]
	}
	b.WriteString(accidental)
	switch {
	case octave <= 4:
		b.WriteString(name)
		for o := octave; o < 4; o++ {
			b.WriteByte(',')
		}
	default:
		b.WriteString(strings.ToLower(name))
		for o := octave; o > 5; o-- {
			b.WriteByte('\'')
		}
	}
	return b.String()
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// durationToken renders a step count as a multiplier of the unit length.
func durationToken(steps, unit int) string {
	g := gcd(steps, unit)
	num, den := steps/g, unit/g
	switch {
	case num == 1 && den == 1:
		return ""
	case den == 1:
		return fmt.Sprintf("%d", num)
	case num == 1:
		return fmt.Sprintf("/%d", den)
	default:
		return fmt.Sprintf("%d/%d", num, den)
	}
}

// Encode renders a Music object as an ABC tune. Each track becomes one body
// line; polyphony within a track is flattened to note order with rests only
// for true gaps.
func Encode(m *music.Music) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot encode nil music")
	}
	unit := m.Resolution / 2 // L:1/8
	if unit < 1 {
		unit = 1
	}

	var buf bytes.Buffer
	buf.WriteString("X:1\n")
	if m.Metadata.Title != "" {
		fmt.Fprintf(&buf, "T:%s\n", m.Metadata.Title)
	}
	if len(m.Metadata.Creators) > 0 {
		fmt.Fprintf(&buf, "C:%s\n", m.Metadata.Creators[0])
	}
	numer, denom := 4, 4
	for _, ts := range m.TimeSignatures {
		if ts.IsValid() {
			numer, denom = ts.Numerator, ts.Denominator
			break
		}
	}
	fmt.Fprintf(&buf, "M:%d/%d\n", numer, denom)
	buf.WriteString("L:1/8\n")
	for _, t := range m.Tempos {
		if t.QPM > 0 {
			fmt.Fprintf(&buf, "Q:1/4=%d\n", int(math.Round(t.QPM)))
			break
		}
	}
	key := "C"
	for _, k := range m.KeySignatures {
		if root, ok := k.ResolveRoot(); ok {
			key = rootNames[root]
			if k.Mode == "minor" {
				key += "m"
			}
			break
		}
	}
	fmt.Fprintf(&buf, "K:%s\n", key)

	barSteps := numer * m.Resolution * 4 / denom
	for _, t := range m.Tracks {
		notes := append([]music.Note(nil), t.Notes...)
		for _, c := range t.Chords {
			for _, p := range c.Pitches {
				notes = append(notes, music.Note{Time: c.Time, Duration: c.Duration, Pitch: p, Velocity: c.Velocity})
			}
		}
		if len(notes) == 0 {
			continue
		}
		canon.Sort(notes, music.Note.SortKey)

		cursor := 0
		nextBar := barSteps
		for _, n := range notes {
			if n.Duration <= 0 || n.Pitch < 0 || n.Pitch > 127 || n.Time < cursor {
				continue // overlaps are not representable on one voice
			}
			if n.Time > cursor {
				buf.WriteString("z" + durationToken(n.Time-cursor, unit))
				cursor = n.Time
			}
			buf.WriteString(noteToken(n.Pitch))
			buf.WriteString(durationToken(n.Duration, unit))
			cursor = n.End()
			if barSteps > 0 && cursor >= nextBar {
				buf.WriteString("|")
				for cursor >= nextBar {
					nextBar += barSteps
				}
			}
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Write renders a Music object to an ABC file.
func Write(m *music.Music, path string) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
