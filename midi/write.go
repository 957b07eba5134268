package midi

import (
	"bytes"
	"fmt"
	"math/bits"
	"os"
	"sort"

	gm "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/quaverlab/quaver/music"
)

// event ordering within one tick: metas, then program, offs before ons so a
// repeated pitch re-attacks cleanly
const (
	orderMeta = iota
	orderProgram
	orderNoteOff
	orderNoteOn
)

type tickEvent struct {
	tick  int
	order int
	pitch int
	msg   smf.Message
}

// writeVarLen encodes a MIDI variable-length quantity.
func writeVarLen(v int) []byte {
	if v <= 0 {
		return []byte{0}
	}
	var out []byte
	for v > 0 {
		out = append([]byte{byte(v&0x7f) | 0x80}, out...)
		v >>= 7
	}
	out[len(out)-1] &^= 0x80
	return out
}

func metaMessage(metaType byte, payload []byte) smf.Message {
	msg := []byte{0xFF, metaType}
	msg = append(msg, writeVarLen(len(payload))...)
	msg = append(msg, payload...)
	return smf.Message(msg)
}

func tempoMessage(qpm float64) smf.Message {
	us := qpmToMicroseconds(qpm)
	return metaMessage(metaTempo, []byte{byte(us >> 16), byte(us >> 8), byte(us)})
}

func timeSigMessage(ts music.TimeSignature) smf.Message {
	dd := byte(bits.TrailingZeros(uint(ts.Denominator)))
	return metaMessage(metaTimeSig, []byte{byte(ts.Numerator), dd, 0x18, 0x08})
}

// buildTrack converts tick-absolute events into a delta-timed SMF track.
func buildTrack(events []tickEvent) smf.Track {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		if events[i].order != events[j].order {
			return events[i].order < events[j].order
		}
		return events[i].pitch < events[j].pitch
	})
	var track smf.Track
	var cursor int
	for _, e := range events {
		track = append(track, smf.Event{
			Delta:   uint32(e.tick - cursor),
			Message: e.msg,
		})
		cursor = e.tick
	}
	track.Close(0)
	return track
}

// metaTrack collects the piece-level tempos, signatures, lyrics and marker
// annotations into SMF track zero.
func metaTrack(m *music.Music) smf.Track {
	var events []tickEvent
	if m.Metadata.Title != "" {
		events = append(events, tickEvent{
			msg: metaMessage(metaTrackName, []byte(m.Metadata.Title)),
		})
	}
	tempos := m.Tempos
	if len(tempos) == 0 {
		tempos = []music.Tempo{{Time: 0, QPM: music.DefaultQPM}}
	}
	for _, t := range tempos {
		events = append(events, tickEvent{tick: t.Time, msg: tempoMessage(t.QPM)})
	}
	for _, ts := range m.TimeSignatures {
		if ts.Numerator <= 0 || ts.Denominator <= 0 {
			continue
		}
		events = append(events, tickEvent{tick: ts.Time, msg: timeSigMessage(ts)})
	}
	for _, k := range m.KeySignatures {
		fifths, ok := k.ResolveFifths()
		if !ok {
			continue
		}
		mi := byte(0)
		if k.Mode == "minor" {
			mi = 1
		}
		events = append(events, tickEvent{
			tick: k.Time,
			msg:  metaMessage(metaKeySig, []byte{byte(int8(fifths)), mi}),
		})
	}
	for _, l := range m.Lyrics {
		events = append(events, tickEvent{tick: l.Time, msg: metaMessage(metaLyric, []byte(l.Lyric))})
	}
	for _, a := range m.Annotations {
		if text, ok := a.Annotation.(string); ok && a.Group == "marker" {
			events = append(events, tickEvent{tick: a.Time, msg: metaMessage(metaMarker, []byte(text))})
		}
	}
	return buildTrack(events)
}

// noteTrack renders one instrument track onto one MIDI channel. Notes and
// chord members outside the MIDI range are skipped; run validation first if
// silent loss is unacceptable.
func noteTrack(t music.Track, channel uint8) smf.Track {
	var events []tickEvent
	if t.Name != "" {
		events = append(events, tickEvent{msg: metaMessage(metaTrackName, []byte(t.Name))})
	}
	events = append(events, tickEvent{
		order: orderProgram,
		msg:   smf.Message(gm.ProgramChange(channel, uint8(clamp(t.Program, 0, 127)))),
	})

	addNote := func(n music.Note) {
		if !n.IsValid() || n.Duration <= 0 {
			return
		}
		events = append(events,
			tickEvent{
				tick:  n.Time,
				order: orderNoteOn,
				pitch: n.Pitch,
				msg:   smf.Message(gm.NoteOn(channel, uint8(n.Pitch), uint8(n.Velocity))),
			},
			tickEvent{
				tick:  n.End(),
				order: orderNoteOff,
				pitch: n.Pitch,
				msg:   smf.Message(gm.NoteOff(channel, uint8(n.Pitch))),
			},
		)
	}
	for _, n := range t.Notes {
		addNote(n)
	}
	for _, c := range t.Chords {
		for _, p := range c.Pitches {
			addNote(music.Note{Time: c.Time, Duration: c.Duration, Pitch: p, Velocity: c.Velocity})
		}
	}
	for _, l := range t.Lyrics {
		events = append(events, tickEvent{tick: l.Time, msg: metaMessage(metaLyric, []byte(l.Lyric))})
	}
	return buildTrack(events)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Encode renders a Music object as SMF type-1 bytes: one meta track plus one
// track per instrument.
func Encode(m *music.Music) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot encode nil music")
	}
	resolution := m.Resolution
	if resolution <= 0 || resolution > 0x7FFF {
		return nil, fmt.Errorf("resolution %d not representable in SMF", resolution)
	}

	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(resolution)
	s.Tracks = append(s.Tracks, metaTrack(m))

	next := 0
	for _, t := range m.Tracks {
		var ch uint8
		if t.IsDrum {
			ch = drumChannel
		} else {
			if next%16 == drumChannel {
				next++
			}
			ch = uint8(next % 16)
			next++
		}
		s.Tracks = append(s.Tracks, noteTrack(t, ch))
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write midi: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders a Music object to a MIDI file.
func Write(m *music.Music, path string) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
