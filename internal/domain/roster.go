package domain

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Roster is a decoded roster document. Records keeps source order; a record
// that was null or failed to decode is a nil slot at its original index and
// the decode error is kept in DecodeErrors under the same index.
// DroppedFields lists, per index, the fields of a kept record whose values had
// the wrong type and were left at their zero value.
type Roster struct {
	Version       string
	LastUpdated   string
	Records       []*RawPersona
	DecodeErrors  map[int]error
	DroppedFields map[int][]string
}

type rosterDocument struct {
	Version     string          `json:"version"`
	LastUpdated string          `json:"lastUpdated"`
	Personas    json.RawMessage `json:"personas"`
}

//go:embed data/personas.json
var personasJSON []byte

// LoadEmbeddedRoster decodes the roster compiled into the binary.
func LoadEmbeddedRoster() (*Roster, error) {
	return DecodeRoster(personasJSON)
}

// DecodeRoster parses a roster document. It fails only when the document
// itself is unusable: not an object, or "personas" missing or not a list.
func DecodeRoster(data []byte) (*Roster, error) {
	var doc rosterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid roster document: %w", err)
	}

	trimmed := bytes.TrimSpace(doc.Personas)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("roster document has no personas list")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("roster personas is not a list: %w", err)
	}

	records, decodeErrs, dropped := DecodeRecords(raw)
	return &Roster{
		Version:       doc.Version,
		LastUpdated:   doc.LastUpdated,
		Records:       records,
		DecodeErrors:  decodeErrs,
		DroppedFields: dropped,
	}, nil
}

// DecodeRecords decodes each element independently so one bad element does not
// take the rest of the list with it. Only an element that is not a JSON object
// is rejected; a field with the wrong type is dropped and the record kept, so
// the id and language checks downstream decide whether it is usable.
func DecodeRecords(raw []json.RawMessage) ([]*RawPersona, map[int]error, map[int][]string) {
	records := make([]*RawPersona, len(raw))
	decodeErrs := make(map[int]error)
	dropped := make(map[int][]string)

	for i, item := range raw {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			decodeErrs[i] = fmt.Errorf("record is null")
			continue
		}
		p, fields, err := decodeRecord(trimmed)
		if err != nil {
			decodeErrs[i] = err
			continue
		}
		if len(fields) > 0 {
			dropped[i] = fields
		}
		records[i] = p
	}

	return records, decodeErrs, dropped
}

// decodeRecord tries the whole object first and falls back to decoding it one
// key at a time, skipping the keys whose values do not fit.
func decodeRecord(data []byte) (*RawPersona, []string, error) {
	var p RawPersona
	err := json.Unmarshal(data, &p)
	if err == nil {
		return &p, nil, nil
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) != nil || fields == nil {
		return nil, nil, err
	}

	p = RawPersona{}
	var dropped []string
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		single, merr := json.Marshal(map[string]json.RawMessage{key: fields[key]})
		if merr != nil {
			dropped = append(dropped, key)
			continue
		}
		var scratch RawPersona
		if json.Unmarshal(single, &scratch) != nil {
			dropped = append(dropped, key)
			continue
		}
		_ = json.Unmarshal(single, &p)
	}
	return &p, dropped, nil
}
