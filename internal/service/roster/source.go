// Package roster loads the raw persona roster from its configured origin.
// Every source returns records in source order and decodes them one by one,
// so a single broken record never hides the others.
package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Source yields the raw roster. An error means the roster as a whole is
// unusable; per-record problems are reported in Roster.DecodeErrors instead.
type Source interface {
	Name() string
	Load(ctx context.Context) (*domain.Roster, error)
}

// EmbeddedSource serves the roster compiled into the binary.
type EmbeddedSource struct{}

func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

func (s *EmbeddedSource) Name() string { return "embedded" }

func (s *EmbeddedSource) Load(context.Context) (*domain.Roster, error) {
	r, err := domain.LoadEmbeddedRoster()
	if err != nil {
		return nil, errors.NewRosterError("embedded roster is invalid", s.Name(), err)
	}
	return r, nil
}

// FileSource reads a roster document from disk. Files ending in .yaml or .yml
// are parsed as YAML; anything else as JSON.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Load(context.Context) (*domain.Roster, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewRosterError("failed to read roster file", s.Name(), err)
	}

	var r *domain.Roster
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		r, err = decodeYAMLRoster(data)
	default:
		r, err = domain.DecodeRoster(data)
	}
	if err != nil {
		return nil, errors.NewRosterError("failed to decode roster file", s.Name(), err)
	}
	return r, nil
}

type yamlRosterDocument struct {
	Version     string      `yaml:"version"`
	LastUpdated string      `yaml:"lastUpdated"`
	Personas    []yaml.Node `yaml:"personas"`
}

// decodeYAMLRoster converts each YAML record to JSON and reuses the JSON
// record decoder, so both formats share one set of field rules.
func decodeYAMLRoster(data []byte) (*domain.Roster, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid yaml roster: %w", err)
	}

	var doc yamlRosterDocument
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("roster personas is not a list: %w", err)
	}
	if !hasPersonasKey(&root) {
		return nil, fmt.Errorf("roster document has no personas list")
	}

	raw := make([]json.RawMessage, len(doc.Personas))
	preErrs := make(map[int]error)
	for i := range doc.Personas {
		var value any
		if err := doc.Personas[i].Decode(&value); err != nil {
			preErrs[i] = err
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			preErrs[i] = err
			continue
		}
		raw[i] = encoded
	}

	records, decodeErrs, dropped := domain.DecodeRecords(raw)
	for i, err := range preErrs {
		decodeErrs[i] = err
	}

	return &domain.Roster{
		Version:       doc.Version,
		LastUpdated:   doc.LastUpdated,
		Records:       records,
		DecodeErrors:  decodeErrs,
		DroppedFields: dropped,
	}, nil
}

func hasPersonasKey(root *yaml.Node) bool {
	if len(root.Content) == 0 {
		return false
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == "personas" {
			return mapping.Content[i+1].Kind == yaml.SequenceNode
		}
	}
	return false
}
