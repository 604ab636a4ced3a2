package datarecording

import (
	"github.com/schedlab/schedsim/compare"
)

// Row types for the comparison result tables. Field names become the
// SQLite column names.

// A GanttRow is one timeline interval of one policy's run.
type GanttRow struct {
	Policy    string
	Subject   int
	StartTime int
	EndTime   int
	Label     string
}

// A ProcessRow is the final accounting of one process under one policy.
type ProcessRow struct {
	Policy         string
	PID            int
	ArrivalTime    int
	BurstTime      int
	WaitingTime    int
	TurnaroundTime int
	ResponseTime   int
	CompletionTime int
}

// A StatisticsRow is the aggregate of one policy's run.
type StatisticsRow struct {
	Policy            string
	AvgWaitingTime    float64
	AvgTurnaroundTime float64
	AvgResponseTime   float64
	CPUUtilization    float64
	ContextSwitches   int
}

// Result table names.
const (
	GanttTable      = "gantt"
	ProcessTable    = "processes"
	StatisticsTable = "statistics"
)

// RecordComparison writes the results of a comparison run into the
// gantt, processes, and statistics tables, creating them first.
func RecordComparison(rec DataRecorder, results []compare.Result) {
	rec.CreateTable(GanttTable, GanttRow{})
	rec.CreateTable(ProcessTable, ProcessRow{})
	rec.CreateTable(StatisticsTable, StatisticsRow{})

	for _, res := range results {
		for _, entry := range res.Gantt {
			rec.InsertData(GanttTable, GanttRow{
				Policy:    res.PolicyID,
				Subject:   entry.Subject,
				StartTime: entry.Start,
				EndTime:   entry.End,
				Label:     entry.Label,
			})
		}

		for _, p := range res.Processes {
			rec.InsertData(ProcessTable, ProcessRow{
				Policy:         res.PolicyID,
				PID:            p.PID,
				ArrivalTime:    p.ArrivalTime,
				BurstTime:      p.BurstTime,
				WaitingTime:    p.WaitingTime,
				TurnaroundTime: p.TurnaroundTime,
				ResponseTime:   p.ResponseTime,
				CompletionTime: p.CompletionTime,
			})
		}

		rec.InsertData(StatisticsTable, StatisticsRow{
			Policy:            res.PolicyID,
			AvgWaitingTime:    res.Statistics.AvgWaitingTime,
			AvgTurnaroundTime: res.Statistics.AvgTurnaroundTime,
			AvgResponseTime:   res.Statistics.AvgResponseTime,
			CPUUtilization:    res.Statistics.CPUUtilization,
			ContextSwitches:   res.Statistics.ContextSwitches,
		})
	}

	rec.Flush()
}
