package policy

import (
	"github.com/schedlab/schedsim/sim"
)

// mlqQuanta holds the per-tier time slices of the multi-level feedback
// queue. Tier 2 has no slice limit.
var mlqQuanta = [3]int{8, 16, 0}

// mlq is a three-tier multi-level feedback queue. Arrivals enter tier 0;
// exhausting a tier's quantum demotes the process one tier; returning
// from I/O re-enters the current tier. The lowest-numbered non-empty
// tier is served FIFO, and a process in a lower tier is preempted as
// soon as a higher tier becomes non-empty.
type mlq struct{}

func (mlq) ID() string   { return MLQ }
func (mlq) Name() string { return "Multi-Level Feedback Queue" }

func (mlq) SelectNext(ready []*sim.Process, now int) *sim.Process {
	var best *sim.Process
	for _, p := range ready {
		// First occurrence wins within a tier, keeping each tier FIFO.
		if best == nil || p.QueueLevel < best.QueueLevel {
			best = p
		}
	}
	return best
}

func (m mlq) ShouldPreempt(
	running *sim.Process,
	ready []*sim.Process,
	now int,
) bool {
	best := m.SelectNext(ready, now)
	return best.QueueLevel < running.QueueLevel
}

func (mlq) TimeSlice(p *sim.Process) int {
	return mlqQuanta[p.QueueLevel]
}

func (mlq) Demote(p *sim.Process) {
	if p.QueueLevel < len(mlqQuanta)-1 {
		p.QueueLevel++
	}
}
