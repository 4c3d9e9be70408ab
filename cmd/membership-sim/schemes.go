package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"membership-sim/internal/cost"
	"membership-sim/internal/scheme"
	"membership-sim/internal/sim"
)

var (
	schemesConfigPath string
	schemesSchemaPath string
)

var schemesCmd = &cobra.Command{
	Use:   "schemes [name...]",
	Short: "List schemes or dump their cost tables",
	Long: "schemes lists the registered membership schemes. Given scheme names it dumps each " +
		"cost table as built for the configured network.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			return listSchemes(out)
		}
		cfg, err := loadExperiment(cmd, schemesConfigPath, schemesSchemaPath)
		if err != nil {
			return err
		}
		cfg.Schemes = args
		devices, err := sim.GenerateTopology(cfg)
		if err != nil {
			return err
		}
		tables, err := sim.SchemeTables(cfg, devices)
		if err != nil {
			return err
		}
		for _, t := range tables {
			fmt.Fprintf(out, "%s (devices=%d, group=%d, avg neighbors=%d)\n",
				t.Name, len(devices), cfg.Network.GatewayGroupSize, devices.AverageDegree())
			fmt.Fprintln(out, renderEntries(t.Table.Entries()))
		}
		return nil
	},
}

func listSchemes(out io.Writer) error {
	for _, name := range scheme.Names() {
		p, err := scheme.Lookup(name, scheme.DefaultParams())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-8s %s\n", p.Name(), p.Description())
	}
	return nil
}

func renderEntries(entries []cost.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Metric, e.Status, e.Participant,
			fmt.Sprintf("%d", e.Cost.Exchange.Sent),
			fmt.Sprintf("%d", e.Cost.Exchange.Received),
			fmt.Sprintf("%g", e.Cost.ExchangeCost.Sent),
			fmt.Sprintf("%g", e.Cost.ExchangeCost.Received),
			fmt.Sprintf("%g", e.Cost.Cost()),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("metric", "status", "participant", "sent", "received", "cost/sent", "cost/received", "per device").
		Rows(rows...).
		String()
}

func init() {
	addConfigFlags(schemesCmd, &schemesConfigPath, &schemesSchemaPath)
}
