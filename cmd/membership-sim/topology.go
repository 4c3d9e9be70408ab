package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"membership-sim/internal/sim"
	"membership-sim/internal/topology"
)

var (
	topoConfigPath string
	topoSchemaPath string
	topoSeed       uint64
	topoJSON       bool
)

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Generate a network and report its shape",
	Long:  "topology generates the configured network, checks its invariants and prints summary statistics or the full device list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadExperiment(cmd, topoConfigPath, topoSchemaPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Simulation.Seed = topoSeed
		}
		devices, err := sim.GenerateTopology(cfg)
		if err != nil {
			return err
		}
		if err := devices.Validate(); err != nil {
			return err
		}
		if topoJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(devices)
		}
		return printStats(cmd.OutOrStdout(), devices.Stats())
	},
}

func printStats(out io.Writer, st topology.Stats) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Devices:\t%d\n", st.Devices)
	fmt.Fprintf(tw, "Gateways:\t%d\n", st.Gateways)
	fmt.Fprintf(tw, "Constrained:\t%d\n", st.Constrained)
	fmt.Fprintf(tw, "Edges:\t%d\n", st.Edges)
	fmt.Fprintf(tw, "Mean degree:\t%.2f\n", st.MeanDegree)
	fmt.Fprintf(tw, "Below cap:\t%d\n", st.BelowCap)
	return tw.Flush()
}

func init() {
	addConfigFlags(topologyCmd, &topoConfigPath, &topoSchemaPath)
	topologyCmd.Flags().Uint64Var(&topoSeed, "seed", 0, "Override the random seed")
	topologyCmd.Flags().BoolVar(&topoJSON, "json", false, "Print every device as JSON")
}
