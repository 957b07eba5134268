// Package musicxml is a thin adapter between score-partwise MusicXML and
// Music objects. It covers the note/rest/chord, divisions, key, time and
// sound-tempo subset; container niceties beyond that are out of scope.
package musicxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/quaverlab/quaver/music"
)

var stepClasses = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

type xPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter"`
	Octave int    `xml:"octave"`
}

// MIDINumber converts a MusicXML pitch to a MIDI note number.
func (p xPitch) MIDINumber() (int, bool) {
	class, ok := stepClasses[p.Step]
	if !ok {
		return 0, false
	}
	return (p.Octave+1)*12 + class + p.Alter, true
}

type xNote struct {
	Chord    *struct{} `xml:"chord"`
	Rest     *struct{} `xml:"rest"`
	Pitch    *xPitch   `xml:"pitch"`
	Duration int       `xml:"duration"`
	Lyric    []struct {
		Text string `xml:"text"`
	} `xml:"lyric"`
}

type xBackup struct {
	Duration int `xml:"duration"`
}

type xForward struct {
	Duration int `xml:"duration"`
}

type xAttributes struct {
	Divisions int `xml:"divisions"`
	Key       *struct {
		Fifths int    `xml:"fifths"`
		Mode   string `xml:"mode"`
	} `xml:"key"`
	Time *struct {
		Beats    int `xml:"beats"`
		BeatType int `xml:"beat-type"`
	} `xml:"time"`
}

type xSound struct {
	Tempo float64 `xml:"tempo,attr"`
}

type xDirection struct {
	Sound *xSound `xml:"sound"`
}

// xMeasure keeps its children in document order; MusicXML timing depends on
// the interleaving of note, backup and forward elements.
type xMeasure struct {
	items []any
}

func (m *xMeasure) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var item any
			switch t.Name.Local {
			case "note":
				item = &xNote{}
			case "backup":
				item = &xBackup{}
			case "forward":
				item = &xForward{}
			case "attributes":
				item = &xAttributes{}
			case "direction":
				item = &xDirection{}
			case "sound":
				item = &xSound{}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := d.DecodeElement(item, &t); err != nil {
				return err
			}
			m.items = append(m.items, item)
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

type xPart struct {
	ID       string     `xml:"id,attr"`
	Measures []xMeasure `xml:"measure"`
}

type xScorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type xScore struct {
	XMLName xml.Name `xml:"score-partwise"`
	Work    *struct {
		Title string `xml:"work-title"`
	} `xml:"work"`
	PartList struct {
		Parts []xScorePart `xml:"score-part"`
	} `xml:"part-list"`
	Parts []xPart `xml:"part"`
}

// firstDivisions finds the first stated divisions value, the "ticks per
// quarter" of the document. MusicXML defaults to 1 when absent.
func firstDivisions(score *xScore) int {
	for _, p := range score.Parts {
		for _, me := range p.Measures {
			for _, item := range me.items {
				if a, ok := item.(*xAttributes); ok && a.Divisions > 0 {
					return a.Divisions
				}
			}
		}
	}
	return 1
}

// Parse converts MusicXML bytes into a Music object.
func Parse(data []byte) (*music.Music, error) {
	var score xScore
	if err := xml.Unmarshal(data, &score); err != nil {
		return nil, fmt.Errorf("bad musicxml: %w", err)
	}

	resolution := firstDivisions(&score)
	m := music.New(resolution)
	m.Metadata.SourceFormat = "musicxml"
	if score.Work != nil {
		m.Metadata.Title = score.Work.Title
	}

	partNames := make(map[string]string, len(score.PartList.Parts))
	for _, sp := range score.PartList.Parts {
		partNames[sp.ID] = sp.Name
	}

	for _, part := range score.Parts {
		track := music.Track{Name: partNames[part.ID]}
		divisions := resolution
		cursor := 0
		prevOnset := 0

		scale := func(d int) int {
			if divisions == resolution {
				return d
			}
			return (d*resolution + divisions/2) / divisions
		}

		for _, me := range part.Measures {
			for _, item := range me.items {
				switch v := item.(type) {
				case *xAttributes:
					if v.Divisions > 0 {
						divisions = v.Divisions
					}
					if v.Key != nil {
						fifths := v.Key.Fifths
						m.KeySignatures = append(m.KeySignatures, music.KeySignature{
							Time:   cursor,
							Fifths: &fifths,
							Mode:   v.Key.Mode,
						})
					}
					if v.Time != nil {
						m.TimeSignatures = append(m.TimeSignatures, music.TimeSignature{
							Time:        cursor,
							Numerator:   v.Time.Beats,
							Denominator: v.Time.BeatType,
						})
					}
				case *xDirection:
					if v.Sound != nil && v.Sound.Tempo > 0 {
						m.Tempos = append(m.Tempos, music.Tempo{Time: cursor, QPM: v.Sound.Tempo})
					}
				case *xSound:
					if v.Tempo > 0 {
						m.Tempos = append(m.Tempos, music.Tempo{Time: cursor, QPM: v.Tempo})
					}
				case *xBackup:
					cursor -= scale(v.Duration)
				case *xForward:
					cursor += scale(v.Duration)
				case *xNote:
					duration := scale(v.Duration)
					onset := cursor
					if v.Chord != nil {
						// chord members share the previous note's onset
						onset = prevOnset
					}
					if v.Pitch != nil {
						if pitch, ok := v.Pitch.MIDINumber(); ok {
							track.Notes = append(track.Notes, music.Note{
								Time:     onset,
								Duration: duration,
								Pitch:    pitch,
								Velocity: music.DefaultVelocity,
							})
						}
						for _, l := range v.Lyric {
							if l.Text != "" {
								track.Lyrics = append(track.Lyrics, music.Lyric{Time: onset, Lyric: l.Text})
							}
						}
					}
					// rests advance like notes; chord members do not
					if v.Chord == nil {
						prevOnset = onset
						cursor = onset + duration
					}
				}
			}
		}
		if len(track.Notes) > 0 || track.Name != "" {
			m.Tracks = append(m.Tracks, track)
		}
	}

	m.Sort()
	return m, nil
}

// Read parses a MusicXML file into a Music object.
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
