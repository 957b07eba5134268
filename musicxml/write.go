package musicxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/quaverlab/quaver/canon"
	"github.com/quaverlab/quaver/music"
)

type wPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

// pitchOf spells a MIDI number with sharps.
func pitchOf(midi int) wPitch {
	octave := midi/12 - 1
	class := midi % 12
	letters := []struct {
		step  string
		class int
	}{
		{"C", 0}, {"D", 2}, {"E", 4}, {"F", 5}, {"G", 7}, {"A", 9}, {"B", 11},
	}
	for _, l := range letters {
		if l.class == class {
			return wPitch{Step: l.step, Octave: octave}
		}
	}
	for _, l := range letters {
		if l.class == class-1 {
			return wPitch{Step: l.step, Alter: 1, Octave: octave}
		}
	}
	return wPitch{Step: "C", Octave: octave}
}

type wNote struct {
	XMLName  xml.Name  `xml:"note"`
	Pitch    *wPitch   `xml:"pitch,omitempty"`
	Rest     *struct{} `xml:"rest,omitempty"`
	Duration int       `xml:"duration"`
}

type wBackup struct {
	XMLName  xml.Name `xml:"backup"`
	Duration int      `xml:"duration"`
}

type wForward struct {
	XMLName  xml.Name `xml:"forward"`
	Duration int      `xml:"duration"`
}

type wKey struct {
	Fifths int    `xml:"fifths"`
	Mode   string `xml:"mode,omitempty"`
}

type wTime struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type wAttributes struct {
	XMLName   xml.Name `xml:"attributes"`
	Divisions int      `xml:"divisions"`
	Key       *wKey    `xml:"key,omitempty"`
	Time      *wTime   `xml:"time,omitempty"`
}

type wDirection struct {
	XMLName xml.Name `xml:"direction"`
	Sound   struct {
		Tempo float64 `xml:"tempo,attr"`
	} `xml:"sound"`
}

type wMeasure struct {
	XMLName xml.Name `xml:"measure"`
	Number  int      `xml:"number,attr"`
	Items   []any
}

type wPart struct {
	XMLName  xml.Name `xml:"part"`
	ID       string   `xml:"id,attr"`
	Measures []wMeasure
}

type wScorePart struct {
	XMLName xml.Name `xml:"score-part"`
	ID      string   `xml:"id,attr"`
	Name    string   `xml:"part-name"`
}

type wScore struct {
	XMLName xml.Name `xml:"score-partwise"`
	Version string   `xml:"version,attr"`
	Work    *struct {
		Title string `xml:"work-title"`
	} `xml:"work,omitempty"`
	PartList struct {
		Parts []wScorePart `xml:"score-part"`
	} `xml:"part-list"`
	Parts []wPart
}

// buildMeasure lays the track out as a single measure, moving the cursor
// with forward/backup so overlapping notes stay representable.
func buildMeasure(m *music.Music, t music.Track, number int, first bool) wMeasure {
	me := wMeasure{Number: number}

	attrs := &wAttributes{Divisions: m.Resolution}
	if first {
		for _, k := range m.KeySignatures {
			if fifths, ok := k.ResolveFifths(); ok {
				attrs.Key = &wKey{Fifths: fifths, Mode: k.Mode}
				break
			}
		}
		for _, ts := range m.TimeSignatures {
			if ts.IsValid() {
				attrs.Time = &wTime{Beats: ts.Numerator, BeatType: ts.Denominator}
				break
			}
		}
	}
	me.Items = append(me.Items, attrs)

	if first && len(m.Tempos) > 0 && m.Tempos[0].QPM > 0 {
		dir := &wDirection{}
		dir.Sound.Tempo = m.Tempos[0].QPM
		me.Items = append(me.Items, dir)
	}

	notes := append([]music.Note(nil), t.Notes...)
	for _, c := range t.Chords {
		for _, p := range c.Pitches {
			notes = append(notes, music.Note{Time: c.Time, Duration: c.Duration, Pitch: p, Velocity: c.Velocity})
		}
	}
	canon.Sort(notes, music.Note.SortKey)

	cursor := 0
	for _, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 || n.Duration <= 0 || n.Time < 0 {
			continue
		}
		if n.Time > cursor {
			me.Items = append(me.Items, &wForward{Duration: n.Time - cursor})
		} else if n.Time < cursor {
			me.Items = append(me.Items, &wBackup{Duration: cursor - n.Time})
		}
		p := pitchOf(n.Pitch)
		me.Items = append(me.Items, &wNote{Pitch: &p, Duration: n.Duration})
		cursor = n.End()
	}
	return me
}

// Encode renders a Music object as score-partwise MusicXML bytes.
func Encode(m *music.Music) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot encode nil music")
	}
	score := wScore{Version: "3.1"}
	if m.Metadata.Title != "" {
		score.Work = &struct {
			Title string `xml:"work-title"`
		}{Title: m.Metadata.Title}
	}
	for i, t := range m.Tracks {
		id := fmt.Sprintf("P%d", i+1)
		name := t.Name
		if name == "" {
			name = id
		}
		score.PartList.Parts = append(score.PartList.Parts, wScorePart{ID: id, Name: name})
		part := wPart{ID: id}
		part.Measures = append(part.Measures, buildMeasure(m, t, 1, i == 0))
		score.Parts = append(score.Parts, part)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(score); err != nil {
		return nil, fmt.Errorf("failed to write musicxml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Write renders a Music object to a MusicXML file.
func Write(m *music.Music, path string) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
