package sim

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func encodeRows(t *testing.T, rows []CurveRow) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestReplayLog(t *testing.T) {
	rows := sampleResult().Rows()
	cw := &collectWriter{}
	n, err := ReplayLog(encodeRows(t, rows), cw, 0)
	if err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if n != len(rows) || len(cw.rows) != len(rows) {
		t.Fatalf("expected %d rows, got %d (%d written)", len(rows), n, len(cw.rows))
	}
	for i, r := range rows {
		if cw.rows[i].Affected != r.Affected || cw.rows[i].Disruption != r.Disruption {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.rows[i], r)
		}
	}
}

func TestReplayLogBatches(t *testing.T) {
	rows := sampleResult().Rows()
	bc := &batchCollector{}
	n, err := ReplayLog(encodeRows(t, rows), bc, 2)
	if err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if n != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), n)
	}
	want := (len(rows) + 1) / 2
	if bc.batches != want {
		t.Fatalf("expected %d batches, got %d", want, bc.batches)
	}
}

func TestReplayLogMalformed(t *testing.T) {
	cw := &collectWriter{}
	n, err := ReplayLog(strings.NewReader("{\"scheme\":\"a\"}\nnot json\n"), cw, 0)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if n != 1 {
		t.Fatalf("expected 1 row before the error, got %d", n)
	}
}

func TestReplayLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curves.jsonl")
	rows := sampleResult().Rows()
	if err := os.WriteFile(path, encodeRows(t, rows).Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cw := &collectWriter{}
	if _, err := ReplayLogFile(path, cw, 0); err != nil {
		t.Fatalf("ReplayLogFile: %v", err)
	}
	if len(cw.rows) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.rows))
	}
	if _, err := ReplayLogFile(filepath.Join(t.TempDir(), "missing"), cw, 0); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
