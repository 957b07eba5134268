package music

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FromMap builds a Music object from a plain nested map/slice structure
// whose keys follow the canonical schema field names. This is the boundary
// constructor the JSON and YAML adapters feed; unknown keys are rejected so
// schema drift surfaces early.
func FromMap(data map[string]any) (*Music, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("cannot interpret mapping: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var m Music
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("mapping does not match the music schema: %w", err)
	}
	if m.Resolution == 0 {
		m.Resolution = DefaultResolution
	}
	if m.Metadata.SchemaVersion == "" {
		m.Metadata.SchemaVersion = SchemaVersion
	}
	return &m, nil
}

// ToMap flattens a Music object into the plain structure FromMap accepts.
func (m *Music) ToMap() (map[string]any, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
