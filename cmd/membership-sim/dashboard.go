package main

import (
	"os"

	"github.com/spf13/cobra"

	"membership-sim/internal/dashboard"
	"membership-sim/internal/logging"
	"membership-sim/internal/sim"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render a Grafana dashboard for curves stored in GreptimeDB",
	Long:  "dashboard writes a Grafana dashboard charting every scheme's cost curves. Requires GREPTIMEDB_DATASOURCE_UID.",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := os.Getenv("GREPTIMEDB_TABLE")
		if table == "" {
			table = sim.DefaultCurveTable
		}
		if err := dashboard.Render(dashboardOut, table); err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Info("dashboard rendered", "dir", dashboardOut, "table", table)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory")
}
