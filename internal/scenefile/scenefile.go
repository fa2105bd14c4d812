// Package scenefile reads and writes the scene documents scattertool works
// on: a processing config, candidate records and an object database, in YAML
// or TOML.
package scenefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/physical-layout/pkg/record"
	"github.com/Faultbox/physical-layout/pkg/scatter"
)

// Format is a document encoding.
type Format int

const (
	YAML Format = iota
	TOML
)

// FormatOf picks the format from a file extension; anything but .toml is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML
	}
	return YAML
}

// File is one scene document.
type File struct {
	// Processing is a processing config record, merged over the tool config.
	Processing record.Record `yaml:"processing,omitempty" toml:"processing,omitempty"`
	// Ranges is a transform ranges record.
	Ranges     record.Record   `yaml:"ranges,omitempty" toml:"ranges,omitempty"`
	Candidates []record.Record `yaml:"candidates,omitempty" toml:"candidates,omitempty"`
	// Meshes maps mesh ids to vertex counts.
	Meshes  map[string]int        `yaml:"meshes,omitempty" toml:"meshes,omitempty"`
	Objects []scatter.SceneObject `yaml:"objects,omitempty" toml:"objects,omitempty"`
}

// Load reads the document at path.
func Load(path string) (*File, error) {
	var f File
	if err := LoadInto(path, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadInto decodes the YAML or TOML file at path into v.
func LoadInto(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := unmarshal(data, FormatOf(path), v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode parses a document.
func Decode(data []byte, format Format) (*File, error) {
	var f File
	if err := unmarshal(data, format, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// DecodeRecord parses a single record document. YAML accepts JSON input.
func DecodeRecord(data []byte, format Format) (record.Record, error) {
	var r record.Record
	if err := unmarshal(data, format, &r); err != nil {
		return nil, err
	}
	if r == nil {
		r = record.Record{}
	}
	return r, nil
}

// DecodeRecords parses a YAML sequence of records.
func DecodeRecords(data []byte) ([]record.Record, error) {
	var rs []record.Record
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func unmarshal(data []byte, format Format, v any) error {
	if format == TOML {
		return toml.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Scene builds the in-memory object database of the document.
func (f *File) Scene() *scatter.Scene {
	s := scatter.NewScene()
	for id, n := range f.Meshes {
		s.AddMesh(id, n)
	}
	for _, obj := range f.Objects {
		s.Add(obj)
	}
	return s
}

// FromScene captures a scene's objects and mesh table into a document.
func FromScene(s *scatter.Scene) *File {
	return &File{Meshes: s.Meshes(), Objects: s.Objects()}
}

// ProcessingConfig merges the document's processing record over base.
func (f *File) ProcessingConfig(base scatter.ProcessingConfig) (scatter.ProcessingConfig, error) {
	merged := base.Record()
	for k, v := range f.Processing {
		merged[k] = v
	}
	return scatter.DecodeConfig(merged)
}

// CandidateList decodes the candidates. With no candidate records, every
// object of the scene becomes a candidate.
func (f *File) CandidateList(s *scatter.Scene) ([]scatter.Candidate, error) {
	if len(f.Candidates) == 0 {
		out := make([]scatter.Candidate, 0, len(f.Objects))
		for _, obj := range s.Objects() {
			out = append(out, s.Candidate(obj.Name))
		}
		return out, nil
	}
	return scatter.DecodeCandidates(f.Candidates)
}

// DecodeStrings parses a YAML or JSON sequence of strings. Empty input is an
// empty list.
func DecodeStrings(data []byte) ([]string, error) {
	var out []string
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes f to path in the format its extension names.
func Save(path string, f *File) error {
	var data []byte
	var err error
	if FormatOf(path) == TOML {
		data, err = toml.Marshal(f)
	} else {
		data, err = yaml.Marshal(f)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
