package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"membership-sim/internal/config"
	"membership-sim/internal/sim"
)

// Output formats accepted by --format.
const (
	formatAuto  = "auto"
	formatJSON  = "json"
	formatTable = "table"
	formatColor = "color"
	formatTUI   = "tui"
)

// resolveFormat picks color output for terminals and JSON lines otherwise.
func resolveFormat(format string, tty bool) (string, error) {
	switch format {
	case "", formatAuto:
		if tty {
			return formatColor, nil
		}
		return formatJSON, nil
	case formatJSON, formatTable, formatColor, formatTUI:
		return format, nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// baseWriter creates the console writer for format. The TUI writer is
// returned separately so the caller can register it as progress observer.
func baseWriter(cfg *config.Experiment, format string) (sim.CurveWriter, *sim.TUIWriter, error) {
	f, err := resolveFormat(format, stdoutIsTerminal())
	if err != nil {
		return nil, nil, err
	}
	switch f {
	case formatTable:
		return sim.NewStdoutWriter(), nil, nil
	case formatColor:
		return sim.NewColorStdoutWriter(cfg), nil, nil
	case formatTUI:
		tw := sim.NewTUIWriter(cfg)
		return tw, tw, nil
	default:
		return sim.NewJSONStdoutWriter(), nil, nil
	}
}

// newWriters sets up the console writer plus the optional GreptimeDB sink
// (GREPTIMEDB_ENDPOINT) and JSONL/result files. It returns the writer, the
// TUI if one was started, and a cleanup function to close any resources.
func newWriters(cfg *config.Experiment, format, logFile, resultFile string) (sim.CurveWriter, *sim.TUIWriter, func(), error) {
	cleanup := func() {}

	base, tui, err := baseWriter(cfg, format)
	if err != nil {
		return nil, nil, nil, err
	}
	writers := []sim.CurveWriter{base}

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		database := os.Getenv("GREPTIMEDB_DATABASE")
		if database == "" {
			database = "public"
		}
		gw, err := sim.NewGreptimeDBWriter(endpoint, database, os.Getenv("GREPTIMEDB_TABLE"))
		if err != nil {
			return nil, nil, nil, err
		}
		writers = append(writers, gw)
	}

	if logFile != "" || resultFile != "" {
		fw, err := sim.NewFileWriter(logFile, resultFile)
		if err != nil {
			return nil, nil, nil, err
		}
		writers = append(writers, fw)
		cleanup = func() { fw.Close() }
	}

	if len(writers) == 1 {
		return base, tui, cleanup, nil
	}
	return sim.NewMultiWriter(writers...), tui, cleanup, nil
}
