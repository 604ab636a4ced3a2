package tracing

import (
	"sort"
	"sync"

	"github.com/schedlab/schedsim/sim"
)

// ProcessStats is the final accounting for one terminated process.
type ProcessStats struct {
	PID            int `json:"pid"`
	ArrivalTime    int `json:"arrival_time"`
	BurstTime      int `json:"burst_time"`
	WaitingTime    int `json:"waiting_time"`
	TurnaroundTime int `json:"turnaround_time"`
	ResponseTime   int `json:"response_time"`
	CompletionTime int `json:"completion_time"`
}

// RunStatistics aggregates a run. Averages cover terminated processes
// only; a run with none terminated yields zeroes. CPUUtilization is the
// fraction of elapsed time the CPU executed a process, so context-switch
// overhead counts against it.
type RunStatistics struct {
	AvgWaitingTime    float64 `json:"avg_waiting_time"`
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
	AvgResponseTime   float64 `json:"avg_response_time"`
	CPUUtilization    float64 `json:"cpu_utilization"`
	ContextSwitches   int     `json:"context_switches"`
}

// A StatsCollector accumulates busy/idle/switch counters and per-process
// records as the engine ticks.
type StatsCollector struct {
	mu sync.Mutex

	busy     int
	idle     int
	switches int
	elapsed  int

	completed []ProcessStats
}

// NewStatsCollector returns a collector ready to attach to an engine.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// Func accumulates CPU slots, context switches, and terminations.
func (c *StatsCollector) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosCPUSlot:
		c.recordSlot(ctx.Item.(sim.CPUSlot))
	case sim.HookPosContextSwitch:
		c.mu.Lock()
		c.switches++
		c.mu.Unlock()
	case sim.HookPosProcessTerminate:
		c.recordTermination(ctx.Item.(*sim.Process))
	}
}

func (c *StatsCollector) recordSlot(slot sim.CPUSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch slot.Subject {
	case sim.SubjectIdle:
		c.idle++
	case sim.SubjectContextSwitch:
	default:
		c.busy++
	}

	if slot.End > c.elapsed {
		c.elapsed = slot.End
	}
}

func (c *StatsCollector) recordTermination(p *sim.Process) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.completed = append(c.completed, ProcessStats{
		PID:            p.PID,
		ArrivalTime:    p.ArrivalTime,
		BurstTime:      p.TotalCPUTime(),
		WaitingTime:    p.WaitingTime,
		TurnaroundTime: p.TurnaroundTime(),
		ResponseTime:   p.ResponseTime,
		CompletionTime: p.CompletionTime,
	})

	if p.CompletionTime > c.elapsed {
		c.elapsed = p.CompletionTime
	}
}

// BusyTime returns the ticks spent executing processes so far.
func (c *StatsCollector) BusyTime() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// ContextSwitches returns the switches counted so far.
func (c *StatsCollector) ContextSwitches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.switches
}

// CompletedCount returns the number of terminated processes so far.
func (c *StatsCollector) CompletedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.completed)
}

// ProcessReports returns the per-process records sorted by PID.
func (c *StatsCollector) ProcessReports() []ProcessStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	reports := append([]ProcessStats(nil), c.completed...)
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].PID < reports[j].PID
	})
	return reports
}

// Statistics computes the aggregate view of the run so far.
func (c *StatsCollector) Statistics() RunStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := RunStatistics{ContextSwitches: c.switches}

	if n := len(c.completed); n > 0 {
		var wait, turnaround, response int
		for _, p := range c.completed {
			wait += p.WaitingTime
			turnaround += p.TurnaroundTime
			response += p.ResponseTime
		}
		stats.AvgWaitingTime = float64(wait) / float64(n)
		stats.AvgTurnaroundTime = float64(turnaround) / float64(n)
		stats.AvgResponseTime = float64(response) / float64(n)
	}

	if c.elapsed > 0 {
		stats.CPUUtilization = float64(c.busy) / float64(c.elapsed)
	}

	return stats
}
