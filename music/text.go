package music

import "reflect"

// Lyric is a syllable or word attached to a time step.
type Lyric struct {
	Time  int    `json:"time" yaml:"time"`
	Lyric string `json:"lyric" yaml:"lyric"`
}

func (l Lyric) IsValid() bool {
	return l.Time >= 0 && l.Lyric != ""
}

func (l *Lyric) Shift(offset int) {
	l.Time += offset
}

func (l Lyric) SortKey() []int {
	return []int{l.Time}
}

// Annotation carries an opaque payload at a time step. The payload is
// round-tripped through JSON/YAML without interpretation.
type Annotation struct {
	Time       int    `json:"time" yaml:"time"`
	Annotation any    `json:"annotation" yaml:"annotation"`
	Group      string `json:"group,omitempty" yaml:"group,omitempty"`
}

func (a Annotation) IsValid() bool {
	return a.Time >= 0 && a.Annotation != nil
}

func (a *Annotation) Shift(offset int) {
	a.Time += offset
}

func (a Annotation) SortKey() []int {
	return []int{a.Time}
}

func (a Annotation) Equal(o Annotation) bool {
	return a.Time == o.Time &&
		a.Group == o.Group &&
		reflect.DeepEqual(a.Annotation, o.Annotation)
}

// Metadata describes where a piece came from.
type Metadata struct {
	SchemaVersion  string   `json:"schema_version" yaml:"schema_version"`
	Title          string   `json:"title,omitempty" yaml:"title,omitempty"`
	Creators       []string `json:"creators,omitempty" yaml:"creators,omitempty"`
	Copyright      string   `json:"copyright,omitempty" yaml:"copyright,omitempty"`
	Collection     string   `json:"collection,omitempty" yaml:"collection,omitempty"`
	SourceFilename string   `json:"source_filename,omitempty" yaml:"source_filename,omitempty"`
	SourceFormat   string   `json:"source_format,omitempty" yaml:"source_format,omitempty"`
}

func (m Metadata) IsValid() bool {
	return m.SchemaVersion != ""
}

func (m Metadata) Equal(o Metadata) bool {
	if m.SchemaVersion != o.SchemaVersion ||
		m.Title != o.Title ||
		m.Copyright != o.Copyright ||
		m.Collection != o.Collection ||
		m.SourceFilename != o.SourceFilename ||
		m.SourceFormat != o.SourceFormat {
		return false
	}
	if len(m.Creators) != len(o.Creators) {
		return false
	}
	for i := range m.Creators {
		if m.Creators[i] != o.Creators[i] {
			return false
		}
	}
	return true
}
