package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membership-sim/internal/config"
	"membership-sim/internal/cost"
	"membership-sim/internal/scheme"
	"membership-sim/internal/topology"
)

func smallExperiment() config.Experiment {
	cfg := config.Default()
	cfg.Name = "small"
	cfg.Network = config.Network{TotalDevices: 30, GatewayCount: 3, MinNeighbors: 2, MaxNeighbors: 4, GatewayGroupSize: 5}
	cfg.Simulation.Iterations = 3
	cfg.Simulation.MinAffected = 0
	cfg.Simulation.MaxAffected = 5
	cfg.Simulation.Counting = "once"
	cfg.Simulation.RoleFilter = "all"
	return cfg
}

func TestOptionsFrom(t *testing.T) {
	cfg := smallExperiment()
	o := OptionsFrom(&cfg)
	assert.Equal(t, 3, o.Iterations)
	assert.Equal(t, 5, o.MaxAffected)
	assert.Equal(t, cost.CountOnce, o.Counting)
	assert.Equal(t, cost.FilterAll, o.Filter)
}

func TestGenerateTopologyDeterministic(t *testing.T) {
	cfg := smallExperiment()
	a, err := GenerateTopology(&cfg)
	require.NoError(t, err)
	b, err := GenerateTopology(&cfg)
	require.NoError(t, err)
	require.NoError(t, a.Validate())
	assert.Equal(t, a.Stats(), b.Stats())
	for i := range a {
		assert.Equal(t, a[i].Neighbors, b[i].Neighbors)
	}

	cfg.Network.GatewayCount = 99
	_, err = GenerateTopology(&cfg)
	assert.True(t, errors.Is(err, topology.ErrInvalidTopology))
}

func TestSchemeTables(t *testing.T) {
	cfg := smallExperiment()
	devices, err := GenerateTopology(&cfg)
	require.NoError(t, err)
	tables, err := SchemeTables(&cfg, devices)
	require.NoError(t, err)
	require.Len(t, tables, len(cfg.Schemes))
	assert.Equal(t, cfg.Schemes[0], tables[0].Name)

	cfg.Schemes = []string{"missing"}
	_, err = SchemeTables(&cfg, devices)
	assert.True(t, errors.Is(err, scheme.ErrUnknownScheme))
}

func TestRunExperiment(t *testing.T) {
	cfg := smallExperiment()
	res, err := RunExperiment(context.Background(), &cfg)
	require.NoError(t, err)
	assert.Equal(t, "small", res.Experiment)
	assert.Equal(t, "once", res.Counting)
	assert.Equal(t, "all", res.Filter)
	assert.Equal(t, 30, res.Topology.Devices)
	require.Len(t, res.Curves, len(cfg.Schemes)*len(cost.Statuses))
	for _, c := range res.Curves {
		require.Len(t, c.Points, 6)
		assert.Zero(t, c.Points[0].Flagged)
	}
	assert.Len(t, res.Rows(), len(res.Curves)*6)
}
