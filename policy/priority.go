package policy

import (
	"fmt"

	"github.com/schedlab/schedsim/sim"
)

// priority schedules by static priority, lower value first, preempting
// whenever a strictly higher-priority process becomes ready.
type priority struct{}

func (priority) ID() string   { return Priority }
func (priority) Name() string { return "Priority (preemptive)" }

func (priority) SelectNext(ready []*sim.Process, now int) *sim.Process {
	return minBy(ready, func(a, b *sim.Process) bool {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return byArrivalThenPID(a, b)
	})
}

func (p priority) ShouldPreempt(
	running *sim.Process,
	ready []*sim.Process,
	now int,
) bool {
	best := p.SelectNext(ready, now)
	return best.Priority < running.Priority
}

// priorityAging is priority scheduling over a dynamic priority that
// improves while a process waits. Every ready tick accumulates one unit
// of AgingWait; the effective priority is
// max(0, static - AgingWait/factor), and both reset on dispatch. This
// bounds how long any ready process can starve.
type priorityAging struct {
	factor int
}

func newPriorityAging(cfg sim.Config) *priorityAging {
	return &priorityAging{factor: cfg.AgingFactor}
}

func (*priorityAging) ID() string { return PriorityAging }

func (p *priorityAging) Name() string {
	return fmt.Sprintf("Priority with Aging (factor=%d)", p.factor)
}

func (*priorityAging) SelectNext(ready []*sim.Process, now int) *sim.Process {
	return minBy(ready, func(a, b *sim.Process) bool {
		if a.DynamicPriority != b.DynamicPriority {
			return a.DynamicPriority < b.DynamicPriority
		}
		return byArrivalThenPID(a, b)
	})
}

func (p *priorityAging) ShouldPreempt(
	running *sim.Process,
	ready []*sim.Process,
	now int,
) bool {
	best := p.SelectNext(ready, now)
	return best.DynamicPriority < running.DynamicPriority
}

func (p *priorityAging) Age(ready []*sim.Process, now int) {
	for _, proc := range ready {
		proc.AgingWait++
		boosted := proc.Priority - proc.AgingWait/p.factor
		if boosted < 0 {
			boosted = 0
		}
		proc.DynamicPriority = boosted
	}
}

func (*priorityAging) ObserveDispatch(proc *sim.Process, now int) {
	proc.DynamicPriority = proc.Priority
	proc.AgingWait = 0
}
