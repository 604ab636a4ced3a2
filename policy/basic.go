package policy

import (
	"fmt"

	"github.com/schedlab/schedsim/sim"
)

// fcfs runs processes to completion in arrival order.
type fcfs struct{}

func (fcfs) ID() string   { return FCFS }
func (fcfs) Name() string { return "FCFS (First-Come, First-Served)" }

func (fcfs) SelectNext(ready []*sim.Process, now int) *sim.Process {
	return minBy(ready, byArrivalThenPID)
}

func (fcfs) ShouldPreempt(*sim.Process, []*sim.Process, int) bool {
	return false
}

// sjf is the preemptive shortest-remaining-time-first variant: a ready
// process with strictly less remaining CPU burst takes the CPU.
type sjf struct{}

func (sjf) ID() string   { return SJF }
func (sjf) Name() string { return "SJF (Shortest Remaining Time First)" }

func (sjf) SelectNext(ready []*sim.Process, now int) *sim.Process {
	return minBy(ready, func(a, b *sim.Process) bool {
		if a.RemainingInBurst != b.RemainingInBurst {
			return a.RemainingInBurst < b.RemainingInBurst
		}
		return byArrivalThenPID(a, b)
	})
}

func (p sjf) ShouldPreempt(
	running *sim.Process,
	ready []*sim.Process,
	now int,
) bool {
	best := p.SelectNext(ready, now)
	return best.RemainingInBurst < running.RemainingInBurst
}

// roundRobin serves the ready queue FIFO with a fixed quantum. Expired
// processes requeue at the tail; there is no priority preemption.
type roundRobin struct {
	quantum int
}

func (roundRobin) ID() string { return RoundRobin }

func (r roundRobin) Name() string {
	return fmt.Sprintf("Round Robin (q=%d)", r.quantum)
}

func (roundRobin) SelectNext(ready []*sim.Process, now int) *sim.Process {
	if len(ready) == 0 {
		return nil
	}
	return ready[0]
}

func (roundRobin) ShouldPreempt(*sim.Process, []*sim.Process, int) bool {
	return false
}

func (r roundRobin) TimeSlice(*sim.Process) int {
	return r.quantum
}
