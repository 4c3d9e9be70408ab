package sim

import (
	"context"
	"fmt"
	"math/rand/v2"

	"membership-sim/internal/config"
	"membership-sim/internal/cost"
	"membership-sim/internal/logging"
	"membership-sim/internal/scheme"
	"membership-sim/internal/topology"
)

// OptionsFrom maps an experiment's simulation section onto driver options.
// The experiment is expected to be validated; unknown counting or filter
// names fall back to the defaults.
func OptionsFrom(cfg *config.Experiment) Options {
	counting, _ := cost.ParseCounting(cfg.Simulation.Counting)
	filter, _ := cost.ParseRoleFilter(cfg.Simulation.RoleFilter)
	return Options{
		Iterations:  cfg.Simulation.Iterations,
		MinAffected: cfg.Simulation.MinAffected,
		MaxAffected: cfg.Simulation.MaxAffected,
		Workers:     cfg.Simulation.Workers,
		Seed:        cfg.Simulation.Seed,
		Counting:    counting,
		Filter:      filter,
	}
}

// TopologySeed derives the generator seed stream from the experiment seed so
// topology and perturbation draws never share a PCG sequence.
func TopologySeed(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, ^uint64(0)))
}

// GenerateTopology builds the experiment's network.
func GenerateTopology(cfg *config.Experiment) (topology.DeviceSet, error) {
	return topology.Generate(TopologySeed(cfg.Simulation.Seed), cfg.GenerateOptions())
}

// SchemeTables builds the cost table of every configured scheme for the
// given network. The average neighbor count is taken from the devices.
func SchemeTables(cfg *config.Experiment, devices topology.DeviceSet) ([]SchemeTable, error) {
	n := scheme.Network{
		TotalDevices:     uint32(len(devices)),
		GatewayGroupSize: uint32(cfg.Network.GatewayGroupSize),
		AvgNeighbors:     uint32(devices.AverageDegree()),
	}
	tables := make([]SchemeTable, 0, len(cfg.Schemes))
	for _, name := range cfg.Schemes {
		p, err := scheme.Lookup(name, cfg.Params)
		if err != nil {
			return nil, err
		}
		tables = append(tables, SchemeTable{Name: p.Name(), Table: p.Metrics(n)})
	}
	return tables, nil
}

// RunExperiment generates the topology, builds the scheme tables and runs
// the driver.
func RunExperiment(ctx context.Context, cfg *config.Experiment, options ...DriverOption) (*Result, error) {
	log := logging.FromContext(ctx)
	devices, err := GenerateTopology(cfg)
	if err != nil {
		return nil, fmt.Errorf("generate topology: %w", err)
	}
	st := devices.Stats()
	log.Info("topology generated", "devices", st.Devices, "gateways", st.Gateways,
		"edges", st.Edges, "mean_degree", st.MeanDegree, "below_cap", st.BelowCap)
	if st.BelowCap > 0 {
		log.Debug("some devices did not reach their degree cap", "count", st.BelowCap)
	}

	tables, err := SchemeTables(cfg, devices)
	if err != nil {
		return nil, err
	}
	options = append([]DriverOption{WithExperiment(cfg.Name)}, options...)
	return NewDriver(OptionsFrom(cfg), tables, options...).Run(ctx, devices)
}
