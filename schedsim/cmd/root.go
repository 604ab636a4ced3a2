// Package cmd implements the schedsim command-line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "schedsim",
	Short: "A CPU-scheduling policy simulator",
	Long: `schedsim simulates a set of processes under interchangeable
CPU-scheduling policies (FCFS, SJF, Round-Robin, Priority, Priority with
Aging, MLQ, Rate Monotonic, EDF) and reports the resulting timeline and
statistics.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
