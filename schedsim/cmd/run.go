package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/schedlab/schedsim/compare"
	"github.com/schedlab/schedsim/datarecording"
	"github.com/schedlab/schedsim/monitoring"
	"github.com/schedlab/schedsim/policy"
	"github.com/schedlab/schedsim/sim"
)

var (
	runProcessFile string
	runSampleIndex int
	runPolicies    []string
	runTimeSlice   int
	runOverhead    int
	runAgingFactor int
	runWorkers     int
	runRecordPath  string
	runShowEvents  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch comparison across policies",
	Long: `Run simulates one process set under every selected policy and
prints a summary table. The process set comes from a JSON file (an array
of process descriptors) or from one of the bundled samples.`,
	RunE: runComparison,
}

func init() {
	runCmd.Flags().StringVarP(&runProcessFile, "processes", "p", "",
		"JSON file holding the process set")
	runCmd.Flags().IntVar(&runSampleIndex, "sample", -1,
		"index of a bundled sample set to run instead of a file")
	runCmd.Flags().StringSliceVar(&runPolicies, "policies", policy.IDs(),
		"policy ids to compare")
	runCmd.Flags().IntVar(&runTimeSlice, "time-slice", 2,
		"Round-Robin quantum in ticks")
	runCmd.Flags().IntVar(&runOverhead, "overhead", 0,
		"context-switch overhead in ticks")
	runCmd.Flags().IntVar(&runAgingFactor, "aging-factor", 0,
		"aging divisor for PriorityAging (0 selects the default)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0,
		"number of concurrent simulations (0 = one per CPU)")
	runCmd.Flags().StringVar(&runRecordPath, "record", "",
		"record results into an SQLite file at this path")
	runCmd.Flags().BoolVar(&runShowEvents, "events", false,
		"print the per-policy event logs")

	rootCmd.AddCommand(runCmd)
}

func runComparison(cmd *cobra.Command, args []string) error {
	specs, err := loadProcessSet()
	if err != nil {
		return err
	}

	cfg := sim.Config{
		ContextSwitchOverhead: runOverhead,
		TimeSlice:             runTimeSlice,
		AgingFactor:           runAgingFactor,
	}

	runner := compare.NewRunner().WithWorkers(runWorkers)
	results, err := runner.Run(specs, runPolicies, cfg)
	if err != nil {
		return err
	}

	printSummary(results)

	if runShowEvents {
		printEventLogs(results)
	}

	if runRecordPath != "" {
		rec := datarecording.New(runRecordPath)
		datarecording.RecordComparison(rec, results)
		if err := rec.Close(); err != nil {
			return err
		}
	}

	return nil
}

func loadProcessSet() ([]sim.ProcessSpec, error) {
	if runSampleIndex >= 0 {
		samples := monitoring.SampleSets()
		if runSampleIndex >= len(samples) {
			return nil, fmt.Errorf(
				"sample index %d out of range (have %d samples)",
				runSampleIndex, len(samples))
		}
		return samples[runSampleIndex].Processes, nil
	}

	if runProcessFile == "" {
		return nil, fmt.Errorf("either --processes or --sample is required")
	}

	data, err := os.ReadFile(runProcessFile)
	if err != nil {
		return nil, err
	}

	var specs []sim.ProcessSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", runProcessFile, err)
	}

	return specs, nil
}

func printSummary(results []compare.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Policy", "Avg Wait", "Avg Turnaround", "Avg Response",
		"CPU Util", "Switches",
	})

	for _, res := range results {
		s := res.Statistics
		table.Append([]string{
			res.PolicyName,
			fmt.Sprintf("%.2f", s.AvgWaitingTime),
			fmt.Sprintf("%.2f", s.AvgTurnaroundTime),
			fmt.Sprintf("%.2f", s.AvgResponseTime),
			fmt.Sprintf("%.1f%%", s.CPUUtilization*100),
			strconv.Itoa(s.ContextSwitches),
		})
	}

	table.Render()
}

func printEventLogs(results []compare.Result) {
	for _, res := range results {
		fmt.Printf("\n=== %s ===\n", res.PolicyName)
		for _, line := range res.EventLog {
			fmt.Println(line)
		}
	}
}
