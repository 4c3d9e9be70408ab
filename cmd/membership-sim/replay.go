package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"membership-sim/internal/logging"
	"membership-sim/internal/sim"
)

var (
	replayInput  string
	replayFormat string
	replayBatch  int
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a curve log file",
	Long:  "replay feeds curve rows from a JSONL log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		if replayFormat == formatTUI {
			return fmt.Errorf("format %q is not supported for replay", replayFormat)
		}
		writer, _, cleanup, err := newWriters(nil, replayFormat, "", "")
		if err != nil {
			return err
		}
		defer cleanup()
		n, err := sim.ReplayLogFile(replayInput, writer, replayBatch)
		if err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Info("replay finished", "rows", n, "input", replayInput)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to curve log file")
	replayCmd.Flags().StringVar(&replayFormat, "format", formatAuto, "Output format: auto, json, table, color")
	replayCmd.Flags().IntVar(&replayBatch, "batch", 0, "Rows per batch, 0 for a single batch")
	replayCmd.MarkFlagRequired("input")
}
