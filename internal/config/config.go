// YAML experiment config with CUE validation and environment overrides
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"membership-sim/internal/cost"
	"membership-sim/internal/scheme"
	"membership-sim/internal/topology"
)

// ErrInvalidConfig marks configuration and precondition errors.
var ErrInvalidConfig = errors.New("invalid config")

// Network describes the generated topology.
type Network struct {
	TotalDevices     int `yaml:"total_devices" json:"total_devices"`
	GatewayCount     int `yaml:"gateway_count" json:"gateway_count"`
	MinNeighbors     int `yaml:"min_neighbors" json:"min_neighbors"`
	MaxNeighbors     int `yaml:"max_neighbors" json:"max_neighbors"`
	GatewayGroupSize int `yaml:"gateway_group_size" json:"gateway_group_size"`
}

// Simulation controls the Monte-Carlo driver.
type Simulation struct {
	Iterations  int    `yaml:"iterations" json:"iterations"`
	MinAffected int    `yaml:"min_affected" json:"min_affected"`
	MaxAffected int    `yaml:"max_affected" json:"max_affected"`
	Workers     int    `yaml:"workers" json:"workers"`
	Seed        uint64 `yaml:"seed" json:"seed"`
	Counting    string `yaml:"counting" json:"counting"`
	RoleFilter  string `yaml:"role_filter" json:"role_filter"`
}

// Experiment is the root configuration of a run.
type Experiment struct {
	Name       string        `yaml:"name" json:"name"`
	Network    Network       `yaml:"network" json:"network"`
	Simulation Simulation    `yaml:"simulation" json:"simulation"`
	Schemes    []string      `yaml:"schemes" json:"schemes"`
	Params     scheme.Params `yaml:"params" json:"params"`
}

// Default returns the baseline experiment: 100 devices with 10 gateways,
// degree caps in 10..15 and every registered scheme.
func Default() Experiment {
	return Experiment{
		Name: "baseline",
		Network: Network{
			TotalDevices:     100,
			GatewayCount:     10,
			MinNeighbors:     10,
			MaxNeighbors:     15,
			GatewayGroupSize: 10,
		},
		Simulation: Simulation{
			Iterations:  100,
			MinAffected: 1,
			MaxAffected: 20,
			Workers:     1,
			Seed:        1,
			Counting:    cost.CountTwice.String(),
			RoleFilter:  cost.FilterConstrained.String(),
		},
		Schemes: scheme.Names(),
		Params:  scheme.DefaultParams(),
	}
}

// Load reads configPath over the defaults, validating it against the CUE
// schema first when schemaPath is set. Environment overrides are applied
// last and the result is validated.
func Load(configPath, schemaPath string) (*Experiment, error) {
	cfg := Default()
	if configPath != "" {
		if schemaPath != "" {
			if err := ValidateWithCue(configPath, schemaPath); err != nil {
				return nil, err
			}
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, configPath, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables. Values that fail
// to parse are configuration errors.
func (e *Experiment) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"TOTAL_DEVICES", &e.Network.TotalDevices},
		{"GATEWAY_COUNT", &e.Network.GatewayCount},
		{"MIN_NEIGHBORS", &e.Network.MinNeighbors},
		{"MAX_NEIGHBORS", &e.Network.MaxNeighbors},
		{"GATEWAY_GROUP_SIZE", &e.Network.GatewayGroupSize},
		{"ITERATIONS", &e.Simulation.Iterations},
		{"MIN_AFFECTED", &e.Simulation.MinAffected},
		{"MAX_AFFECTED", &e.Simulation.MaxAffected},
		{"WORKERS", &e.Simulation.Workers},
	}
	for _, v := range ints {
		s, ok := lookup(v.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, v.key, s, err)
		}
		*v.dst = n
	}

	if s, ok := lookup("SEED"); ok {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SEED=%q: %v", ErrInvalidConfig, s, err)
		}
		e.Simulation.Seed = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"EPSB", &e.Params.EnergyPerSentBit},
		{"EPRB", &e.Params.EnergyPerReceivedBit},
	}
	for _, v := range floats {
		s, ok := lookup(v.key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, v.key, s, err)
		}
		*v.dst = f
	}

	sizes := []struct {
		key string
		dst *uint32
	}{
		{"SENT_MESSAGE_SIZE", &e.Params.SentMessageSize},
		{"RECEIVED_MESSAGE_SIZE", &e.Params.ReceivedMessageSize},
	}
	for _, v := range sizes {
		s, ok := lookup(v.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, v.key, s, err)
		}
		*v.dst = uint32(n)
	}
	return nil
}

// Validate checks generation preconditions and that every scheme exists.
func (e *Experiment) Validate() error {
	n := e.Network
	if n.TotalDevices <= 0 {
		return fmt.Errorf("%w: total_devices must be positive, got %d", ErrInvalidConfig, n.TotalDevices)
	}
	if n.GatewayCount < 0 || n.GatewayCount > n.TotalDevices {
		return fmt.Errorf("%w: gateway_count %d outside 0..%d", ErrInvalidConfig, n.GatewayCount, n.TotalDevices)
	}
	if n.MinNeighbors < 0 || n.MinNeighbors > n.MaxNeighbors {
		return fmt.Errorf("%w: neighbor range %d..%d", ErrInvalidConfig, n.MinNeighbors, n.MaxNeighbors)
	}
	if n.MaxNeighbors >= n.TotalDevices {
		return fmt.Errorf("%w: max_neighbors %d must be below total_devices %d", ErrInvalidConfig, n.MaxNeighbors, n.TotalDevices)
	}
	if n.GatewayGroupSize < 0 {
		return fmt.Errorf("%w: gateway_group_size must not be negative", ErrInvalidConfig)
	}
	s := e.Simulation
	if s.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfig, s.Iterations)
	}
	if s.MinAffected < 0 || s.MinAffected > s.MaxAffected {
		return fmt.Errorf("%w: affected range %d..%d", ErrInvalidConfig, s.MinAffected, s.MaxAffected)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if _, err := cost.ParseCounting(s.Counting); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := cost.ParseRoleFilter(s.RoleFilter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(e.Schemes) == 0 {
		return fmt.Errorf("%w: no schemes selected", ErrInvalidConfig)
	}
	known := scheme.Names()
	for _, name := range e.Schemes {
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, scheme.ErrUnknownScheme, name)
		}
	}
	return nil
}

// GenerateOptions maps the network section onto generator options.
func (e *Experiment) GenerateOptions() topology.GenerateOptions {
	return topology.GenerateOptions{
		TotalDevices: e.Network.TotalDevices,
		GatewayCount: e.Network.GatewayCount,
		MinDegree:    e.Network.MinNeighbors,
		MaxDegree:    e.Network.MaxNeighbors,
	}
}
