package policy

import (
	"github.com/schedlab/schedsim/sim"
)

// rateMonotonic orders by period, shortest first. Only processes with a
// period take part; each process is a single job, so the policy acts as
// a priority-assignment rule rather than a full periodic task model.
type rateMonotonic struct{}

func (rateMonotonic) ID() string   { return RateMonotonic }
func (rateMonotonic) Name() string { return "Rate Monotonic (RM)" }

func (rateMonotonic) Admits(spec sim.ProcessSpec) bool {
	return spec.Period > 0
}

func (rateMonotonic) SelectNext(ready []*sim.Process, now int) *sim.Process {
	return minBy(ready, func(a, b *sim.Process) bool {
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return byArrivalThenPID(a, b)
	})
}

func (r rateMonotonic) ShouldPreempt(
	running *sim.Process,
	ready []*sim.Process,
	now int,
) bool {
	best := r.SelectNext(ready, now)
	return best.Period < running.Period
}

// edf orders by absolute deadline, earliest first. Only processes with a
// deadline take part.
type edf struct{}

func (edf) ID() string   { return EDF }
func (edf) Name() string { return "Earliest Deadline First (EDF)" }

func (edf) Admits(spec sim.ProcessSpec) bool {
	return spec.Deadline > 0
}

func (edf) SelectNext(ready []*sim.Process, now int) *sim.Process {
	return minBy(ready, func(a, b *sim.Process) bool {
		if a.AbsoluteDeadline != b.AbsoluteDeadline {
			return a.AbsoluteDeadline < b.AbsoluteDeadline
		}
		return byArrivalThenPID(a, b)
	})
}

func (e edf) ShouldPreempt(
	running *sim.Process,
	ready []*sim.Process,
	now int,
) bool {
	best := e.SelectNext(ready, now)
	return best.AbsoluteDeadline < running.AbsoluteDeadline
}
