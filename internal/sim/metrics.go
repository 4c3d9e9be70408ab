package sim

import (
	"github.com/prometheus/client_golang/prometheus"

	"membership-sim/internal/topology"
)

// Metrics collects run counters in a private Prometheus registry.
type Metrics struct {
	Registry *prometheus.Registry

	Scenarios         *prometheus.CounterVec
	Iterations        prometheus.Counter
	IterationDuration prometheus.Histogram
	Devices           prometheus.Gauge
	Edges             prometheus.Gauge
	BelowCap          prometheus.Gauge
}

// NewMetrics registers the simulator metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "membership_sim",
			Name:      "scenarios_total",
			Help:      "Disruption scenarios evaluated, labeled by disruption kind.",
		}, []string{"disruption"}),
		Iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "membership_sim",
			Name:      "iterations_total",
			Help:      "Monte-Carlo iterations completed.",
		}),
		IterationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "membership_sim",
			Name:      "iteration_duration_seconds",
			Help:      "Wall time of a single iteration.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		Devices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "membership_sim",
			Name:      "topology_devices",
			Help:      "Devices in the simulated network.",
		}),
		Edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "membership_sim",
			Name:      "topology_edges",
			Help:      "Undirected links in the simulated network.",
		}),
		BelowCap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "membership_sim",
			Name:      "topology_devices_below_cap",
			Help:      "Devices whose degree stayed below their cap after generation.",
		}),
	}
	m.Registry.MustRegister(m.Scenarios, m.Iterations, m.IterationDuration, m.Devices, m.Edges, m.BelowCap)
	return m
}

// ObserveTopology records the shape of the generated network.
func (m *Metrics) ObserveTopology(st topology.Stats) {
	if m == nil {
		return
	}
	m.Devices.Set(float64(st.Devices))
	m.Edges.Set(float64(st.Edges))
	m.BelowCap.Set(float64(st.BelowCap))
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
