package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"membership-sim/internal/sim"
)

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		in   string
		tty  bool
		want string
	}{
		{"", true, formatColor},
		{formatAuto, false, formatJSON},
		{formatTable, true, formatTable},
		{formatTUI, false, formatTUI},
	}
	for _, tc := range cases {
		got, err := resolveFormat(tc.in, tc.tty)
		if err != nil || got != tc.want {
			t.Fatalf("resolveFormat(%q, %v) = %q, %v; want %q", tc.in, tc.tty, got, err, tc.want)
		}
	}
	if _, err := resolveFormat("xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNewWritersJSON(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, tui, cleanup, err := newWriters(nil, formatJSON, "", "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if tui != nil {
		t.Fatalf("expected no TUI")
	}
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWritersTable(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, _, cleanup, err := newWriters(nil, formatTable, "", "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", w)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "curves.jsonl")
	resultPath := filepath.Join(dir, "result.json")
	w, _, cleanup, err := newWriters(nil, formatJSON, path, resultPath)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", w)
	}
	row := sim.CurveRow{RunID: "r", Scheme: "bkrsc", Disruption: "leaving", Affected: 1, Timestamp: time.Now()}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cleanup()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
}

func TestNewWritersUnknownFormat(t *testing.T) {
	if _, _, _, err := newWriters(nil, "xml", "", ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListSchemes(t *testing.T) {
	var buf bytes.Buffer
	if err := listSchemes(&buf); err != nil {
		t.Fatalf("listSchemes: %v", err)
	}
	if !strings.Contains(buf.String(), "bkrsc") || !strings.Contains(buf.String(), "cgkm") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestSimulateCommandJSON(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	dir := t.TempDir()
	result := filepath.Join(dir, "result.json")
	metrics := filepath.Join(dir, "sim.prom")
	rootCmd.SetArgs([]string{
		"simulate", "--format", "json", "--iterations", "2", "--workers", "2",
		"--result-file", result, "--metrics-file", metrics,
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, p := range []string{result, metrics} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s: %v", p, err)
		}
	}
}

func TestTopologyCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)
	rootCmd.SetArgs([]string{"topology", "--seed", "3"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("topology: %v", err)
	}
	if !strings.Contains(buf.String(), "Devices:") || !strings.Contains(buf.String(), "Below cap:") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
