package content

import (
	"bytes"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Seed is the content file the database is populated from.
type Seed struct {
	Projects []Project `yaml:"projects"`
	Skills   []Skill   `yaml:"skills"`
}

// Validate validates every entry and rejects duplicate project titles and
// skill names.
func (s Seed) Validate() error {
	if err := validation.ValidateStruct(&s,
		validation.Field(&s.Projects),
		validation.Field(&s.Skills),
	); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.Projects))
	for _, p := range s.Projects {
		if seen[p.Title] {
			return fmt.Errorf("duplicate project title %q", p.Title)
		}
		seen[p.Title] = true
	}

	skills := make(map[string]bool, len(s.Skills))
	for _, sk := range s.Skills {
		if skills[sk.Name] {
			return fmt.Errorf("duplicate skill %q", sk.Name)
		}
		skills[sk.Name] = true
	}
	return nil
}

// LoadSeed reads and validates a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates YAML seed data.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	for i := range seed.Projects {
		seed.Projects[i].Normalize()
	}
	for i := range seed.Skills {
		seed.Skills[i].Normalize()
	}

	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return &seed, nil
}
