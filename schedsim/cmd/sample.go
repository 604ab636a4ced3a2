package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schedlab/schedsim/monitoring"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the bundled sample process sets as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if err := enc.Encode(monitoring.SampleSets()); err != nil {
			return fmt.Errorf("cannot encode samples: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}
