package scenario

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"membership-sim/internal/config"
)

// Scenario is a named sweep of experiment variants run against one base
// configuration.
type Scenario struct {
	Name        string    `yaml:"name,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Variants    []Variant `yaml:"variants"`
}

// Variant overrides selected fields of the base experiment. Nil fields keep
// the base value.
type Variant struct {
	Name             string `yaml:"name"`
	Description      string `yaml:"description,omitempty"`
	TotalDevices     *int   `yaml:"total_devices,omitempty"`
	GatewayCount     *int   `yaml:"gateway_count,omitempty"`
	MinNeighbors     *int   `yaml:"min_neighbors,omitempty"`
	MaxNeighbors     *int   `yaml:"max_neighbors,omitempty"`
	GatewayGroupSize *int   `yaml:"gateway_group_size,omitempty"`
	Iterations       *int   `yaml:"iterations,omitempty"`
	MinAffected      *int   `yaml:"min_affected,omitempty"`
	MaxAffected      *int   `yaml:"max_affected,omitempty"`
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Variants) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no variants", config.ErrInvalidConfig, path)
	}
	return &s, nil
}

// Resolve returns the built-in scenario called name, or loads name as a file.
func Resolve(name string) (*Scenario, error) {
	if s, ok := BuiltIn()[name]; ok {
		return &s, nil
	}
	if _, err := os.Stat(name); err != nil {
		return nil, fmt.Errorf("%w: unknown scenario %q", config.ErrInvalidConfig, name)
	}
	return Load(name)
}

// Apply yields one experiment per variant, named "<scenario>/<variant>".
func (s *Scenario) Apply(base config.Experiment) []config.Experiment {
	out := make([]config.Experiment, 0, len(s.Variants))
	for _, v := range s.Variants {
		e := base
		e.Schemes = slices.Clone(base.Schemes)
		e.Name = s.Name + "/" + v.Name
		set(&e.Network.TotalDevices, v.TotalDevices)
		set(&e.Network.GatewayCount, v.GatewayCount)
		set(&e.Network.MinNeighbors, v.MinNeighbors)
		set(&e.Network.MaxNeighbors, v.MaxNeighbors)
		set(&e.Network.GatewayGroupSize, v.GatewayGroupSize)
		set(&e.Simulation.Iterations, v.Iterations)
		set(&e.Simulation.MinAffected, v.MinAffected)
		set(&e.Simulation.MaxAffected, v.MaxAffected)
		out = append(out, e)
	}
	return out
}

func set(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
