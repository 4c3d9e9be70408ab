// Monte-Carlo driver perturbing the network and averaging scheme costs
package sim

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"membership-sim/internal/cost"
	"membership-sim/internal/logging"
	"membership-sim/internal/topology"
)

// Options controls a simulation run.
type Options struct {
	Iterations  int
	MinAffected int
	MaxAffected int
	// Workers > 1 spreads iterations over goroutines, each on its own copy
	// of the device set. Output does not depend on the worker count.
	Workers  int
	Seed     uint64
	Counting cost.Counting
	Filter   cost.RoleFilter
}

func (o Options) valid() bool {
	return o.Iterations > 0 && o.MinAffected >= 0 && o.MinAffected <= o.MaxAffected
}

// SchemeTable pairs a scheme name with its cost table.
type SchemeTable struct {
	Name  string
	Table *cost.Metrics
}

// Observer is notified after each completed iteration. Calls are serialized.
type Observer interface {
	IterationDone(done, total int)
}

// Driver runs repeated disruption scenarios over a device set.
type Driver struct {
	opts       Options
	schemes    []SchemeTable
	observer   Observer
	metrics    *Metrics
	experiment string
	now        func() time.Time

	mu   sync.Mutex
	done int
}

// DriverOption customises a Driver.
type DriverOption func(*Driver)

// WithObserver registers a progress observer.
func WithObserver(o Observer) DriverOption { return func(d *Driver) { d.observer = o } }

// WithMetrics records run counters into m.
func WithMetrics(m *Metrics) DriverOption { return func(d *Driver) { d.metrics = m } }

// WithExperiment labels the result with an experiment name.
func WithExperiment(name string) DriverOption { return func(d *Driver) { d.experiment = name } }

// NewDriver creates a driver for the given schemes.
func NewDriver(opts Options, schemes []SchemeTable, options ...DriverOption) *Driver {
	d := &Driver{opts: opts, schemes: schemes, now: time.Now}
	for _, o := range options {
		o(d)
	}
	return d
}

// Run is a convenience wrapper around NewDriver(...).Run.
func Run(ctx context.Context, devices topology.DeviceSet, opts Options, schemes []SchemeTable) (*Result, error) {
	return NewDriver(opts, schemes).Run(ctx, devices)
}

// pair is one (energy, communication) sample.
type pair struct {
	energy, comm float64
}

// sample holds everything recorded in one iteration, indexed
// [scheme][status][k-MinAffected].
type sample struct {
	costs   [][][]pair
	flagged [][]int
}

func (d *Driver) newSample(buckets int) sample {
	s := sample{
		costs:   make([][][]pair, len(d.schemes)),
		flagged: make([][]int, len(cost.Statuses)),
	}
	for i := range s.costs {
		s.costs[i] = make([][]pair, len(cost.Statuses))
		for j := range s.costs[i] {
			s.costs[i][j] = make([]pair, buckets)
		}
	}
	for j := range s.flagged {
		s.flagged[j] = make([]int, buckets)
	}
	return s
}

// Run executes the configured iterations and returns the averaged curves.
// Malformed options or an empty scheme list yield an empty result. The
// device set is mutated in place when Workers <= 1 and always left reset.
func (d *Driver) Run(ctx context.Context, devices topology.DeviceSet) (*Result, error) {
	log := logging.FromContext(ctx)
	res := &Result{
		RunID:      uuid.New().String(),
		Experiment: d.experiment,
		Seed:       d.opts.Seed,
		Iterations: d.opts.Iterations,
		Counting:   d.opts.Counting.String(),
		Filter:     d.opts.Filter.String(),
		Topology:   devices.Stats(),
		StartedAt:  d.now().UTC(),
	}
	d.metrics.ObserveTopology(res.Topology)
	d.mu.Lock()
	d.done = 0
	d.mu.Unlock()

	if !d.opts.valid() || len(d.schemes) == 0 {
		log.Warn("simulation skipped: malformed options",
			"iterations", d.opts.Iterations, "min_affected", d.opts.MinAffected,
			"max_affected", d.opts.MaxAffected, "schemes", len(d.schemes))
		res.Iterations = 0
		res.FinishedAt = d.now().UTC()
		return res, nil
	}

	buckets := d.opts.MaxAffected - d.opts.MinAffected + 1
	samples := make([]sample, d.opts.Iterations)
	for i := range samples {
		samples[i] = d.newSample(buckets)
	}

	log.Info("simulation started", "run_id", res.RunID, "iterations", d.opts.Iterations,
		"min_affected", d.opts.MinAffected, "max_affected", d.opts.MaxAffected,
		"workers", d.opts.Workers, "seed", d.opts.Seed)

	var err error
	if d.opts.Workers <= 1 {
		err = d.runSequential(ctx, devices, samples)
	} else {
		err = d.runParallel(ctx, devices, samples)
	}
	if err != nil {
		return nil, err
	}

	res.Curves = d.reduce(samples)
	res.FinishedAt = d.now().UTC()
	log.Info("simulation finished", "run_id", res.RunID, "curves", len(res.Curves),
		"elapsed", res.FinishedAt.Sub(res.StartedAt))
	return res, nil
}

func (d *Driver) rngFor(iteration int) *rand.Rand {
	return rand.New(rand.NewPCG(d.opts.Seed, uint64(iteration)))
}

func (d *Driver) runSequential(ctx context.Context, devices topology.DeviceSet, samples []sample) error {
	devices.Reset()
	for i := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.iterate(devices, d.rngFor(i), &samples[i])
	}
	return nil
}

func (d *Driver) runParallel(ctx context.Context, devices topology.DeviceSet, samples []sample) error {
	g, ctx := errgroup.WithContext(ctx)
	workers := d.opts.Workers
	if workers > len(samples) {
		workers = len(samples)
	}
	for w := 0; w < workers; w++ {
		local := devices.Clone()
		local.Reset()
		g.Go(func() error {
			for i := w; i < len(samples); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				d.iterate(local, d.rngFor(i), &samples[i])
			}
			return nil
		})
	}
	return g.Wait()
}

// iterate runs every (k, disruption) scenario once. Each scenario marks k
// devices, prices every scheme, then resets the flags.
func (d *Driver) iterate(devices topology.DeviceSet, rng *rand.Rand, s *sample) {
	start := time.Now()
	for b := range s.flagged[0] {
		k := d.opts.MinAffected + b
		for si, status := range cost.Statuses {
			devices.Mark(rng, status.Flag(), k)
			s.flagged[si][b] = devices.Count(status.Flag())
			for sc, tbl := range d.schemes {
				s.costs[sc][si][b] = pair{
					energy: cost.TotalEnergy(devices, status, d.opts.Filter, tbl.Table, d.opts.Counting),
					comm:   cost.TotalCommunication(devices, status, d.opts.Filter, tbl.Table, d.opts.Counting),
				}
			}
			devices.Reset()
			if d.metrics != nil {
				d.metrics.Scenarios.WithLabelValues(status.String()).Inc()
			}
		}
	}
	if d.metrics != nil {
		d.metrics.Iterations.Inc()
		d.metrics.IterationDuration.Observe(time.Since(start).Seconds())
	}
	d.iterationDone()
}

func (d *Driver) iterationDone() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done++
	if d.observer != nil {
		d.observer.IterationDone(d.done, d.opts.Iterations)
	}
}

// reduce averages samples in iteration order so the output is identical
// for any worker count.
func (d *Driver) reduce(samples []sample) []Curve {
	n := len(samples)
	if n == 0 {
		return nil
	}
	buckets := d.opts.MaxAffected - d.opts.MinAffected + 1
	energies := make([]float64, n)
	comms := make([]float64, n)

	curves := make([]Curve, 0, len(d.schemes)*len(cost.Statuses))
	for sc, tbl := range d.schemes {
		for si, status := range cost.Statuses {
			c := Curve{Scheme: tbl.Name, Status: status, Points: make([]Point, buckets)}
			for b := 0; b < buckets; b++ {
				var sumE, sumC float64
				var sumFlagged int
				for i := range samples {
					p := samples[i].costs[sc][si][b]
					energies[i], comms[i] = p.energy, p.comm
					sumE += p.energy
					sumC += p.comm
					sumFlagged += samples[i].flagged[si][b]
				}
				c.Points[b] = Point{
					Affected:            d.opts.MinAffected + b,
					Energy:              sumE / float64(n),
					Communication:       sumC / float64(n),
					EnergyStdDev:        stdDev(energies),
					CommunicationStdDev: stdDev(comms),
					Flagged:             float64(sumFlagged) / float64(n),
				}
			}
			curves = append(curves, c)
		}
	}
	return curves
}

// stdDev is the sample standard deviation, clamped to zero where rounding
// would push the variance of identical samples negative.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	v := stat.Variance(xs, nil)
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return math.Sqrt(v)
}
