package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"membership-sim/internal/config"
	"membership-sim/internal/cost"
)

func sampleResult() *Result {
	ts := time.Unix(0, 0).UTC()
	points := func(e, c float64) []Point {
		return []Point{
			{Affected: 1, Energy: e, Communication: c, Flagged: 1},
			{Affected: 2, Energy: e, Communication: c, Flagged: 2},
		}
	}
	return &Result{
		RunID:      "run-1",
		Iterations: 3,
		Curves: []Curve{
			{Scheme: "bkrsc", Status: cost.Compromised, Points: points(0.5, 12)},
			{Scheme: "bkrsc", Status: cost.Leaving, Points: points(0.25, 6)},
			{Scheme: "cgkm", Status: cost.Compromised, Points: points(1.5, 40)},
		},
		StartedAt:  ts,
		FinishedAt: ts,
	}
}

func TestStdoutWriterTables(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &StdoutWriter{out: buf}
	if err := Emit(w, sampleResult()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"bkrsc / compromised", "bkrsc / leaving", "cgkm / compromised", "communication"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestStdoutWriterSingleRow(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &StdoutWriter{out: buf}
	if err := w.Write(CurveRow{Scheme: "cgkm", Disruption: "draining", Affected: 4, Energy: 0.1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "cgkm draining k=4") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestJSONStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &JSONStdoutWriter{out: buf}
	if err := Emit(w, sampleResult()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	var row CurveRow
	if err := json.Unmarshal([]byte(lines[0]), &row); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if row.RunID != "run-1" || row.Affected != 1 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestColorStdoutWriter(t *testing.T) {
	cfg := config.Default()
	cfg.Name = "unit"
	buf := &bytes.Buffer{}
	w := NewColorStdoutWriter(&cfg)
	w.out = buf
	if err := Emit(w, sampleResult()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "Experiment unit") != 1 {
		t.Fatalf("expected overview once:\n%s", out)
	}
	if !strings.Contains(out, "σ energy") || !strings.Contains(out, "cgkm / compromised") {
		t.Fatalf("expected curve tables in output:\n%s", out)
	}
	if w.schemeColor("bkrsc") == w.schemeColor("cgkm") {
		t.Fatalf("schemes should get distinct colors")
	}
}

func TestGroupCurves(t *testing.T) {
	groups := groupCurves(sampleResult().Rows())
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g) != 2 {
			t.Fatalf("expected 2 rows per group, got %d", len(g))
		}
	}
	if groupCurves(nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
