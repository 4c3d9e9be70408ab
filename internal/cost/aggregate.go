package cost

import (
	"fmt"
	"strings"

	"membership-sim/internal/topology"
)

// Counting selects how often each qualifying device contributes to a total.
type Counting int

const (
	// CountTwice adds every matching device's cost two times. This is the
	// historical aggregation rule and the default, so published curves
	// stay comparable.
	CountTwice Counting = iota
	// CountOnce adds each matching device's cost a single time.
	CountOnce
)

func (c Counting) String() string {
	if c == CountOnce {
		return "once"
	}
	return "twice"
}

// ParseCounting converts "once" or "twice" into a Counting.
func ParseCounting(name string) (Counting, error) {
	switch strings.ToLower(name) {
	case "", "twice":
		return CountTwice, nil
	case "once":
		return CountOnce, nil
	}
	return 0, fmt.Errorf("unknown counting mode %q", name)
}

// Aggregate sums the per-device cost of every device matching filter, using
// the table entry for (metric, status, device role). The devices' own flags
// are not consulted: the result describes what the filtered population would
// cost under status.
func Aggregate(devices topology.DeviceSet, metric MetricKind, status Status, filter RoleFilter, table *Metrics, counting Counting) float64 {
	var total float64
	for _, d := range devices {
		if !filter.matches(d.Role) {
			continue
		}
		c := table.Lookup(metric, status, d.Role).Cost()
		total += c
		if counting == CountTwice {
			total += c
		}
	}
	return total
}

// TotalEnergy is Aggregate for the energy dimension.
func TotalEnergy(devices topology.DeviceSet, status Status, filter RoleFilter, table *Metrics, counting Counting) float64 {
	return Aggregate(devices, Energy, status, filter, table, counting)
}

// TotalCommunication is Aggregate for the communication dimension.
func TotalCommunication(devices topology.DeviceSet, status Status, filter RoleFilter, table *Metrics, counting Counting) float64 {
	return Aggregate(devices, Communication, status, filter, table, counting)
}
