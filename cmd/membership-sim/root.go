package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"membership-sim/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "membership-sim",
	Short: "IoT membership scheme cost simulator",
	Long: "membership-sim compares the energy and communication cost of group membership schemes " +
		"on random degree-capped IoT networks under compromise, leave and drain events.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		l := logging.New(logging.Config{
			Level:  envOr(logLevel, "LOG_LEVEL"),
			Format: envOr(logFormat, "LOG_FORMAT"),
		})
		slog.SetDefault(l)
		cmd.SetContext(logging.NewContext(cmd.Context(), l))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(flagValue, key string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(key)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (default $LOG_FORMAT or text)")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(topologyCmd)
	rootCmd.AddCommand(schemesCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}
