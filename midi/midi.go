// Package midi converts between Standard MIDI Files and Music objects.
// Container parsing is left to gitlab.com/gomidi/midi/v2/smf; this package
// only maps events onto the entity model.
package midi

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/quaverlab/quaver/music"
	"github.com/quaverlab/quaver/util"
)

// meta event type bytes (FF tt len ...)
const (
	metaTrackName = 0x03
	metaLyric     = 0x05
	metaMarker    = 0x06
	metaTempo     = 0x51
	metaTimeSig   = 0x58
	metaKeySig    = 0x59
)

const drumChannel = 9

// readSMF parses SMF bytes. The parser can panic on malformed files
// (https://github.com/gomidi/midi/issues/20), so recover into an error.
// Any panic value counts; truncated files raise runtime errors, not strings.
func readSMF(data []byte) (s *smf.SMF, e error) {
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("error parsing midi data: %v", r)
		}
	}()
	res, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing midi data: %w", err)
	}
	return res, nil
}

// readVarLen decodes a MIDI variable-length quantity.
func readVarLen(data []byte) (value int, n int) {
	for n < len(data) {
		b := data[n]
		value = value<<7 | int(b&0x7f)
		n++
		if b&0x80 == 0 {
			break
		}
	}
	return value, n
}

// metaText extracts the payload of a text-carrying meta event, or "" when
// msg is not the wanted meta type.
func metaText(msg []byte, metaType byte) string {
	if len(msg) < 3 || msg[0] != 0xFF || msg[1] != metaType {
		return ""
	}
	length, n := readVarLen(msg[2:])
	start := 2 + n
	if start+length > len(msg) {
		return ""
	}
	return string(msg[start : start+length])
}

type openNote struct {
	time     int
	velocity int
}

// channelState accumulates one output track per (smf track, channel) pair.
type channelState struct {
	program int
	notes   []music.Note
	open    map[uint8][]openNote
}

// Decode converts a parsed SMF into a Music object. Notes are paired
// first-on-first-off per channel and pitch; a note-on with velocity zero
// counts as a note-off.
func Decode(s *smf.SMF) (*music.Music, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot decode nil smf")
	}
	resolution := music.DefaultResolution
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok && mt.Resolution() > 0 {
		resolution = int(mt.Resolution())
	}
	m := music.New(resolution)
	m.Metadata.SourceFormat = "midi"

	for _, events := range s.Tracks {
		var absTicks int64
		var trackName string
		channels := make(map[uint8]*channelState)

		state := func(ch uint8) *channelState {
			if cs, ok := channels[ch]; ok {
				return cs
			}
			cs := &channelState{open: make(map[uint8][]openNote)}
			channels[ch] = cs
			return cs
		}

		closeNote := func(ch, key uint8, end int) {
			cs := state(ch)
			opens := cs.open[key]
			if len(opens) == 0 {
				return
			}
			on := opens[0]
			cs.open[key] = opens[1:]
			cs.notes = append(cs.notes, music.Note{
				Time:     on.time,
				Duration: end - on.time,
				Pitch:    int(key),
				Velocity: on.velocity,
			})
		}

		for _, event := range events {
			absTicks += int64(event.Delta)
			now := int(absTicks)
			msg := event.Message

			var channel, key, velocity, program uint8
			switch {
			case msg.GetNoteOn(&channel, &key, &velocity):
				if velocity == 0 {
					closeNote(channel, key, now)
					break
				}
				cs := state(channel)
				cs.open[key] = append(cs.open[key], openNote{time: now, velocity: int(velocity)})
			case msg.GetNoteOff(&channel, &key, &velocity):
				closeNote(channel, key, now)
			case msg.GetProgramChange(&channel, &program):
				state(channel).program = int(program)
			default:
				decodeMeta(m, msg, now, &trackName)
			}
		}

		for _, ch := range util.GetKeys(channels) {
			cs := channels[ch]
			// notes never closed end with zero duration
			for key, opens := range cs.open {
				for _, on := range opens {
					cs.notes = append(cs.notes, music.Note{
						Time:     on.time,
						Pitch:    int(key),
						Velocity: on.velocity,
					})
				}
			}
			if len(cs.notes) == 0 {
				continue
			}
			m.Tracks = append(m.Tracks, music.Track{
				Program: cs.program,
				IsDrum:  ch == drumChannel,
				Name:    trackName,
				Notes:   cs.notes,
			})
		}
	}

	m.Sort()
	return m, nil
}

// decodeMeta maps a meta event onto the piece-level lists.
func decodeMeta(m *music.Music, msg []byte, now int, trackName *string) {
	if len(msg) < 3 || msg[0] != 0xFF {
		return
	}
	switch msg[1] {
	case metaTempo:
		if len(msg) >= 6 && msg[2] == 0x03 {
			usPerQuarter := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
			if usPerQuarter > 0 {
				m.Tempos = append(m.Tempos, music.Tempo{
					Time: now,
					QPM:  60000000.0 / float64(usPerQuarter),
				})
			}
		}
	case metaTimeSig:
		if len(msg) >= 5 && msg[2] >= 0x02 {
			m.TimeSignatures = append(m.TimeSignatures, music.TimeSignature{
				Time:        now,
				Numerator:   int(msg[3]),
				Denominator: 1 << int(msg[4]),
			})
		}
	case metaKeySig:
		if len(msg) >= 5 && msg[2] == 0x02 {
			fifths := int(int8(msg[3]))
			mode := "major"
			if msg[4] == 1 {
				mode = "minor"
			}
			m.KeySignatures = append(m.KeySignatures, music.KeySignature{
				Time:   now,
				Fifths: &fifths,
				Mode:   mode,
			})
		}
	case metaLyric:
		if text := metaText(msg, metaLyric); text != "" {
			m.Lyrics = append(m.Lyrics, music.Lyric{Time: now, Lyric: text})
		}
	case metaMarker:
		if text := metaText(msg, metaMarker); text != "" {
			m.Annotations = append(m.Annotations, music.Annotation{
				Time:       now,
				Annotation: text,
				Group:      "marker",
			})
		}
	case metaTrackName:
		if text := metaText(msg, metaTrackName); text != "" {
			if *trackName == "" {
				*trackName = text
			}
			if m.Metadata.Title == "" {
				m.Metadata.Title = text
			}
		}
	}
}

// Read parses a MIDI file into a Music object.
func Read(path string) (*music.Music, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	m, err := FromBytes(data)
	if err != nil {
		return nil, err
	}
	m.Metadata.SourceFilename = path
	return m, nil
}

// FromBytes parses raw SMF bytes into a Music object.
func FromBytes(data []byte) (*music.Music, error) {
	s, err := readSMF(data)
	if err != nil {
		return nil, err
	}
	return Decode(s)
}

// qpmToMicroseconds converts quarter notes per minute to the tempo meta
// payload unit (microseconds per quarter note).
func qpmToMicroseconds(qpm float64) uint32 {
	if qpm <= 0 {
		qpm = music.DefaultQPM
	}
	return uint32(math.Round(60000000.0 / qpm))
}
