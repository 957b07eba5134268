// Package abc is a thin adapter between ABC notation and Music objects. It
// covers the header fields X/T/C/M/L/Q/K and monophonic note bodies with
// accidentals, octave marks, duration multipliers, rests and bar lines.
package abc

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/quaverlab/quaver/music"
)

var letterClasses = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

type header struct {
	title   string
	creator string
	numer   int
	denom   int
	unitNum int // L: unit note length numerator
	unitDen int
	qpm     float64
	keyRoot string
	keyMode string
}

func defaultHeader() header {
	return header{numer: 4, denom: 4, unitNum: 1, unitDen: 8}
}

// parseFraction reads "n/d" or "n".
func parseFraction(s string) (int, int, bool) {
	num, den := 0, 1
	parts := strings.SplitN(s, "/", 2)
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || n <= 0 {
		return 0, 0, false
	}
	num = n
	if len(parts) == 2 {
		d, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || d <= 0 {
			return 0, 0, false
		}
		den = d
	}
	return num, den, true
}

// parseKey reads an ABC key field like "C", "Am", "Bb", "E minor".
func parseKey(s string) (root, mode string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "C", "major"
	}
	fields := strings.Fields(s)
	root = fields[0]
	mode = "major"
	if len(fields) > 1 {
		rest := strings.ToLower(fields[1])
		if strings.HasPrefix(rest, "min") || strings.HasPrefix(rest, "aeo") || rest == "m" {
			mode = "minor"
		}
	}
	if len(root) > 1 && strings.HasSuffix(root, "m") {
		root = strings.TrimSuffix(root, "m")
		mode = "minor"
	}
	return root, mode
}

func parseHeaderLine(h *header, line string) bool {
	if len(line) < 2 || line[1] != ':' {
		return false
	}
	value := strings.TrimSpace(line[2:])
	switch line[0] {
	case 'X':
		// tune number; nothing to keep
	case 'T':
		if h.title == "" {
			h.title = value
		}
	case 'C':
		if h.creator == "" {
			h.creator = value
		}
	case 'M':
		if value == "C" {
			h.numer, h.denom = 4, 4
		} else if n, d, ok := parseFraction(value); ok {
			h.numer, h.denom = n, d
		}
	case 'L':
		if n, d, ok := parseFraction(value); ok {
			h.unitNum, h.unitDen = n, d
		}
	case 'Q':
		// "1/4=120" or plain "120"
		if i := strings.IndexByte(value, '='); i >= 0 {
			value = value[i+1:]
		}
		if q, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && q > 0 {
			h.qpm = q
		}
	case 'K':
		h.keyRoot, h.keyMode = parseKey(value)
	default:
		return false
	}
	return true
}

// unitSteps converts the L: unit note length into time steps.
func (h header) unitSteps(resolution int) int {
	// a quarter note is resolution steps, a 1/unitDen note scales from it
	steps := resolution * 4 * h.unitNum / h.unitDen
	if steps < 1 {
		steps = 1
	}
	return steps
}

// Parse converts an ABC tune into a Music object with one track.
func Parse(data []byte) (*music.Music, error) {
	m := music.New(music.DefaultResolution)
	m.Metadata.SourceFormat = "abc"

	h := defaultHeader()
	lines := strings.Split(string(data), "\n")
	bodyStart := len(lines)
	seenKey := false
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if !parseHeaderLine(&h, line) {
			bodyStart = i
			break
		}
		if line[0] == 'K' {
			// K: ends the header per the ABC standard
			seenKey = true
			bodyStart = i + 1
			break
		}
	}
	if !seenKey && bodyStart == len(lines) {
		return nil, fmt.Errorf("abc tune has no body")
	}

	m.Metadata.Title = h.title
	if h.creator != "" {
		m.Metadata.Creators = []string{h.creator}
	}
	m.TimeSignatures = []music.TimeSignature{{Numerator: h.numer, Denominator: h.denom}}
	if h.qpm > 0 {
		m.Tempos = []music.Tempo{{QPM: h.qpm}}
	}
	if h.keyRoot != "" {
		if _, ok := music.PitchClassOf(h.keyRoot); ok {
			m.KeySignatures = []music.KeySignature{{RootStr: h.keyRoot, Mode: h.keyMode}}
		}
	}

	unit := h.unitSteps(m.Resolution)
	track := music.Track{Name: h.title}
	cursor := 0
	for _, line := range lines[bodyStart:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if len(line) > 1 && line[1] == ':' {
			parseHeaderLine(&h, line)
			unit = h.unitSteps(m.Resolution)
			continue
		}
		cursor = parseBody(&track, line, cursor, unit)
	}

	if len(track.Notes) > 0 {
		m.Tracks = []music.Track{track}
	}
	m.Sort()
	return m, nil
}

// parseBody walks one line of tune body, appending notes and advancing the
// time cursor. Bar lines carry no timing and are skipped.
func parseBody(track *music.Track, line string, cursor, unit int) int {
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '|' || c == ']' || c == ':':
			i++
		case c == '%':
			return cursor // comment to end of line
		case c == 'z' || c == 'Z' || c == 'x':
			i++
			steps, n := parseDuration(line[i:], unit)
			i += n
			cursor += steps
		case c == '^' || c == '_' || c == '=' || (c >= 'A' && c <= 'G') || (c >= 'a' && c <= 'g'):
			accidental := 0
			for i < len(line) {
				if line[i] == '^' {
					accidental++
				} else if line[i] == '_' {
					accidental--
				} else if line[i] == '=' {
					accidental = 0
				} else {
					break
				}
				i++
			}
			if i >= len(line) {
				return cursor
			}
			letter := line[i]
			var pitch int
			if letter >= 'A' && letter <= 'G' {
				pitch = 60 + letterClasses[letter]
			} else if letter >= 'a' && letter <= 'g' {
				pitch = 72 + letterClasses[letter-'a'+'A']
			} else {
				i++
				continue
			}
			i++
			for i < len(line) {
				if line[i] == '\'' {
					pitch += 12
				} else if line[i] == ',' {
					pitch -= 12
				} else {
					break
				}
				i++
			}
			pitch += accidental
			steps, n := parseDuration(line[i:], unit)
			i += n
			if pitch >= 0 && pitch <= 127 {
				track.Notes = append(track.Notes, music.Note{
					Time:     cursor,
					Duration: steps,
					Pitch:    pitch,
					Velocity: music.DefaultVelocity,
				})
			}
			cursor += steps
		default:
			i++
		}
	}
	return cursor
}

// parseDuration reads an ABC length suffix ("2", "/2", "3/2", "/") and
// returns the step count and the bytes consumed.
func parseDuration(s string, unit int) (steps, n int) {
	num, den := 1, 1
	readInt := func() (int, bool) {
		start := n
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		if n == start {
			return 0, false
		}
		v, _ := strconv.Atoi(s[start:n])
		return v, true
	}
	if v, ok := readInt(); ok {
		num = v
	}
	for n < len(s) && s[n] == '/' {
		n++
		if v, ok := readInt(); ok {
			den *= v
		} else {
			den *= 2 // bare "/" halves
		}
	}
	steps = unit * num / den
	if steps < 1 {
		steps = 1
	}
	return steps, n
}

// Read parses an ABC file into a Music object.
func Read(path string) (*music.Music, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Metadata.SourceFilename = path
	return m, nil
}
