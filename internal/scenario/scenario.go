// Package scenario loads named projection scenarios from YAML files and
// evaluates them against the catalog.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/roicalc/internal/input"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"gopkg.in/yaml.v3"
)

// ErrNoScenarios is returned when a scenario file defines nothing to run.
var ErrNoScenarios = errors.New("no scenarios defined")

// Scenario is one named set of projection inputs.
type Scenario struct {
	Name         string   `yaml:"name" json:"name"`
	OfficerCount *int     `yaml:"officer_count,omitempty" json:"officer_count,omitempty"`
	AvgSalary    *float64 `yaml:"avg_salary,omitempty" json:"avg_salary,omitempty"`
	// UseCases nil means "use the defaults"; an explicit empty list selects
	// nothing.
	UseCases []string `yaml:"use_cases" json:"use_cases"`
}

// MarshalYAML keeps the nil/empty distinction of UseCases: a nil list is
// omitted so it reads back as "use the defaults".
func (s Scenario) MarshalYAML() (any, error) {
	type base struct {
		Name         string   `yaml:"name"`
		OfficerCount *int     `yaml:"officer_count,omitempty"`
		AvgSalary    *float64 `yaml:"avg_salary,omitempty"`
	}
	b := base{Name: s.Name, OfficerCount: s.OfficerCount, AvgSalary: s.AvgSalary}
	if s.UseCases == nil {
		return b, nil
	}
	return struct {
		base     `yaml:",inline"`
		UseCases []string `yaml:"use_cases"`
	}{b, s.UseCases}, nil
}

// File is the top-level shape of a scenario file.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Defaults fill in whatever a scenario leaves unset.
type Defaults struct {
	Params   projection.Params
	UseCases []string
}

// Resolve returns the clamped engine parameters and selection for s.
func (s Scenario) Resolve(d Defaults) (projection.Params, projection.Selection) {
	p := d.Params
	if s.OfficerCount != nil {
		p.OfficerCount = *s.OfficerCount
	}
	if s.AvgSalary != nil {
		p.AvgSalary = *s.AvgSalary
	}

	ids := s.UseCases
	if ids == nil {
		ids = d.UseCases
	}
	return input.ClampParams(p), input.NormalizeSelection(ids)
}

// Parse decodes scenarios from r. Names must be unique and non-empty.
func Parse(r io.Reader) ([]Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoScenarios
		}
		return nil, fmt.Errorf("decoding scenarios: %w", err)
	}

	if len(f.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		f.Scenarios[i].Name = strings.TrimSpace(f.Scenarios[i].Name)
		name := f.Scenarios[i].Name
		if name == "" {
			return nil, fmt.Errorf("scenario %d: name is required", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate scenario name %q", name)
		}
		seen[name] = true
	}

	return f.Scenarios, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	scenarios, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

// Find returns the scenario with the given name.
func Find(scenarios []Scenario, name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Write encodes scenarios as YAML to w.
func Write(w io.Writer, scenarios []Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Scenarios: scenarios}); err != nil {
		return err
	}
	return enc.Close()
}
