package topology

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInvalidTopology is returned when generation parameters are inconsistent.
var ErrInvalidTopology = errors.New("invalid topology parameters")

// GenerateOptions sizes the simulated network.
type GenerateOptions struct {
	TotalDevices int
	GatewayCount int
	MinDegree    int
	MaxDegree    int
}

func (o GenerateOptions) validate() error {
	if o.GatewayCount < 0 || o.GatewayCount > o.TotalDevices {
		return fmt.Errorf("%w: gateway count %d outside [0, %d]", ErrInvalidTopology, o.GatewayCount, o.TotalDevices)
	}
	if o.MinDegree < 0 || o.MinDegree > o.MaxDegree {
		return fmt.Errorf("%w: degree range [%d, %d]", ErrInvalidTopology, o.MinDegree, o.MaxDegree)
	}
	if o.MaxDegree >= o.TotalDevices {
		return fmt.Errorf("%w: max degree %d must be below device count %d", ErrInvalidTopology, o.MaxDegree, o.TotalDevices)
	}
	return nil
}

// Generate builds a degree-capped random network.
//
// Each device draws its own cap from [MinDegree, MaxDegree]. Device order is
// shuffled before ids are assigned so role does not correlate with id. Edges
// are then added greedily in id order: a device keeps picking a uniformly
// random partner among non-neighbors that still have spare capacity until it
// reaches its cap or no partner is left. Devices may end below their cap.
func Generate(rng *rand.Rand, opts GenerateOptions) (DeviceSet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	devices := make(DeviceSet, 0, opts.TotalDevices)
	for i := 0; i < opts.TotalDevices; i++ {
		role := RoleConstrained
		if i < opts.GatewayCount {
			role = RoleGateway
		}
		maxDegree := opts.MinDegree + rng.IntN(opts.MaxDegree-opts.MinDegree+1)
		devices = append(devices, newDevice(i, role, nil, maxDegree))
	}

	rng.Shuffle(len(devices), func(i, j int) {
		devices[i], devices[j] = devices[j], devices[i]
	})
	for i, d := range devices {
		d.ID = i
	}

	eligible := make([]int, 0, len(devices))
	for i, d := range devices {
		for d.Degree() < d.MaxDegree {
			eligible = eligible[:0]
			for k, other := range devices {
				if k == i || d.HasNeighbor(k) || other.Degree() >= other.MaxDegree {
					continue
				}
				eligible = append(eligible, k)
			}
			if len(eligible) == 0 {
				break
			}
			k := eligible[rng.IntN(len(eligible))]
			d.Neighbors = append(d.Neighbors, k)
			devices[k].Neighbors = append(devices[k].Neighbors, i)
		}
	}

	return devices, nil
}

// Validate checks the structural invariants of a generated set: ids match
// positions, adjacency is symmetric and simple, and no device exceeds its cap.
func (s DeviceSet) Validate() error {
	for i, d := range s {
		if d.ID != i {
			return fmt.Errorf("device at %d has id %d", i, d.ID)
		}
		if d.Degree() > d.MaxDegree {
			return fmt.Errorf("device %d degree %d exceeds cap %d", i, d.Degree(), d.MaxDegree)
		}
		seen := make(map[int]struct{}, len(d.Neighbors))
		for _, n := range d.Neighbors {
			if n == i {
				return fmt.Errorf("device %d has a self loop", i)
			}
			if n < 0 || n >= len(s) {
				return fmt.Errorf("device %d references unknown device %d", i, n)
			}
			if _, dup := seen[n]; dup {
				return fmt.Errorf("device %d lists neighbor %d twice", i, n)
			}
			seen[n] = struct{}{}
			if !s[n].HasNeighbor(i) {
				return fmt.Errorf("edge %d-%d is not symmetric", i, n)
			}
		}
	}
	return nil
}

// Stats summarises a device set.
type Stats struct {
	Devices     int     `json:"devices"`
	Gateways    int     `json:"gateways"`
	Constrained int     `json:"constrained"`
	Edges       int     `json:"edges"`
	MeanDegree  float64 `json:"mean_degree"`
	BelowCap    int     `json:"below_cap"`
}

// Stats computes counts over the current topology.
func (s DeviceSet) Stats() Stats {
	st := Stats{Devices: len(s)}
	degrees := 0
	for _, d := range s {
		if d.Role == RoleGateway {
			st.Gateways++
		} else {
			st.Constrained++
		}
		degrees += d.Degree()
		if d.Degree() < d.MaxDegree {
			st.BelowCap++
		}
	}
	st.Edges = degrees / 2
	if len(s) > 0 {
		st.MeanDegree = float64(degrees) / float64(len(s))
	}
	return st
}

// AverageDegree returns the mean degree rounded to the nearest integer.
func (s DeviceSet) AverageDegree() int {
	return int(s.Stats().MeanDegree + 0.5)
}
