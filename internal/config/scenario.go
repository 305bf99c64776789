package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/transform"
	"gopkg.in/yaml.v3"
)

// Scenario describes a navigation grid and the entities placed on it.
type Scenario struct {
	Name     string       `yaml:"name"`
	Grid     GridSpec     `yaml:"grid"`
	Entities []EntitySpec `yaml:"entities"`
}

type GridSpec struct {
	Width  int        `yaml:"width"`
	Depth  int        `yaml:"depth"`
	Origin [3]float64 `yaml:"origin"`
	// Blocked lists [x, z] cell coordinates.
	Blocked [][2]int `yaml:"blocked"`
}

type EntitySpec struct {
	Name      string         `yaml:"name"`
	Tags      []string       `yaml:"tags"`
	Transform transform.Data `yaml:"transform"`
	// Parent names another entity of the scenario.
	Parent string      `yaml:"parent,omitempty"`
	Health float64     `yaml:"health,omitempty"`
	AI     *AISpec     `yaml:"ai,omitempty"`
	Weapon *WeaponSpec `yaml:"weapon,omitempty"`
	Body   *BodySpec   `yaml:"body,omitempty"`
}

// AISpec attaches a controller. Mode is an authored name such as "Waypoints"
// or "Chase"; unknown names start in the default mode.
type AISpec struct {
	Mode string `yaml:"mode"`
}

// WeaponSpec overrides the configured weapon values where non-zero.
type WeaponSpec struct {
	Damage float64 `yaml:"damage,omitempty"`
	Range  float64 `yaml:"range,omitempty"`
}

type BodySpec struct {
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`
}

var knownTags = map[string]ecs.Tag{
	string(ecs.TagVehicle):   ecs.TagVehicle,
	string(ecs.TagAiVehicle): ecs.TagAiVehicle,
	string(ecs.TagWaypoint):  ecs.TagWaypoint,
}

// LoadScenario decodes and validates a YAML scenario.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %s: %w", path, err)
	}
	defer f.Close()
	s, err := LoadScenario(f)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

func (s *Scenario) Validate() error {
	var errs []error
	if s.Grid.Width <= 0 || s.Grid.Depth <= 0 {
		errs = append(errs, fmt.Errorf("grid %dx%d must have positive size", s.Grid.Width, s.Grid.Depth))
	}
	for _, b := range s.Grid.Blocked {
		if b[0] < 0 || b[0] >= s.Grid.Width || b[1] < 0 || b[1] >= s.Grid.Depth {
			errs = append(errs, fmt.Errorf("blocked cell %v outside the grid", b))
		}
	}

	names := make(map[string]struct{}, len(s.Entities))
	for i, e := range s.Entities {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("entity #%d has no name", i))
			continue
		}
		if _, dup := names[e.Name]; dup {
			errs = append(errs, fmt.Errorf("entity %q declared twice", e.Name))
		}
		names[e.Name] = struct{}{}
		for _, tag := range e.Tags {
			if _, ok := knownTags[tag]; !ok {
				errs = append(errs, fmt.Errorf("entity %q: unknown tag %q", e.Name, tag))
			}
		}
		if e.Health < 0 {
			errs = append(errs, fmt.Errorf("entity %q: health %v must not be negative", e.Name, e.Health))
		}
		if e.Body != nil && (e.Body.MaxSpeed < 0 || e.Body.Acceleration < 0) {
			errs = append(errs, fmt.Errorf("entity %q: body values must not be negative", e.Name))
		}
	}
	for _, e := range s.Entities {
		if e.Parent == "" {
			continue
		}
		if e.Parent == e.Name {
			errs = append(errs, fmt.Errorf("entity %q is its own parent", e.Name))
		} else if _, ok := names[e.Parent]; !ok {
			errs = append(errs, fmt.Errorf("entity %q: unknown parent %q", e.Name, e.Parent))
		}
	}
	return errors.Join(errs...)
}

// EntityTags converts validated tag names.
func (e EntitySpec) EntityTags() []ecs.Tag {
	tags := make([]ecs.Tag, 0, len(e.Tags))
	for _, name := range e.Tags {
		if tag, ok := knownTags[name]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}
