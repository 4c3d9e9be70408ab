package sim

import (
	"time"

	"membership-sim/internal/cost"
	"membership-sim/internal/topology"
)

// Point is the averaged cost at one affected-device count.
type Point struct {
	Affected            int     `json:"affected"`
	Energy              float64 `json:"energy"`
	Communication       float64 `json:"communication"`
	EnergyStdDev        float64 `json:"energy_stddev"`
	CommunicationStdDev float64 `json:"communication_stddev"`
	Flagged             float64 `json:"flagged"`
}

// Curve is the cost curve of one scheme under one disruption kind.
type Curve struct {
	Scheme string      `json:"scheme"`
	Status cost.Status `json:"disruption"`
	Points []Point     `json:"points"`
}

// Result holds every curve produced by a run.
type Result struct {
	RunID      string         `json:"run_id"`
	Experiment string         `json:"experiment,omitempty"`
	Seed       uint64         `json:"seed"`
	Iterations int            `json:"iterations"`
	Counting   string         `json:"counting"`
	Filter     string         `json:"role_filter"`
	Topology   topology.Stats `json:"topology"`
	Curves     []Curve        `json:"curves"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Empty reports whether the run produced no curves.
func (r *Result) Empty() bool { return r == nil || len(r.Curves) == 0 }

// Curve returns the curve for a scheme and disruption kind.
func (r *Result) Curve(scheme string, status cost.Status) (Curve, bool) {
	for _, c := range r.Curves {
		if c.Scheme == scheme && c.Status == status {
			return c, true
		}
	}
	return Curve{}, false
}

// CurveRow is a single plotted sample, the unit handled by writers.
type CurveRow struct {
	RunID               string    `json:"run_id"`
	Experiment          string    `json:"experiment,omitempty"`
	Scheme              string    `json:"scheme"`
	Disruption          string    `json:"disruption"`
	Affected            int       `json:"affected"`
	Energy              float64   `json:"energy"`
	Communication       float64   `json:"communication"`
	EnergyStdDev        float64   `json:"energy_stddev"`
	CommunicationStdDev float64   `json:"communication_stddev"`
	Flagged             float64   `json:"flagged"`
	Iterations          int       `json:"iterations"`
	Timestamp           time.Time `json:"ts"`
}

// Rows flattens the result into writer rows, curve by curve.
func (r *Result) Rows() []CurveRow {
	if r.Empty() {
		return nil
	}
	var rows []CurveRow
	for _, c := range r.Curves {
		for _, p := range c.Points {
			rows = append(rows, CurveRow{
				RunID:               r.RunID,
				Experiment:          r.Experiment,
				Scheme:              c.Scheme,
				Disruption:          c.Status.String(),
				Affected:            p.Affected,
				Energy:              p.Energy,
				Communication:       p.Communication,
				EnergyStdDev:        p.EnergyStdDev,
				CommunicationStdDev: p.CommunicationStdDev,
				Flagged:             p.Flagged,
				Iterations:          r.Iterations,
				Timestamp:           r.FinishedAt,
			})
		}
	}
	return rows
}
