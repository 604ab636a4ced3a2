// Package policy implements the scheduling policies the engine can run.
// Policies are registered in a constructor table keyed by a stable id so
// that callers (the CLI, the HTTP API, the comparison runner) can build
// them by name.
package policy

import (
	"github.com/schedlab/schedsim/sim"
)

// The registered policy ids.
const (
	FCFS          = "FCFS"
	SJF           = "SJF"
	RoundRobin    = "RoundRobin"
	Priority      = "Priority"
	PriorityAging = "PriorityAging"
	MLQ           = "MLQ"
	RateMonotonic = "RateMonotonic"
	EDF           = "EDF"
)

var constructors = map[string]func(cfg sim.Config) sim.Policy{
	FCFS:          func(sim.Config) sim.Policy { return fcfs{} },
	SJF:           func(sim.Config) sim.Policy { return sjf{} },
	RoundRobin:    func(cfg sim.Config) sim.Policy { return roundRobin{quantum: cfg.TimeSlice} },
	Priority:      func(sim.Config) sim.Policy { return priority{} },
	PriorityAging: func(cfg sim.Config) sim.Policy { return newPriorityAging(cfg) },
	MLQ:           func(sim.Config) sim.Policy { return mlq{} },
	RateMonotonic: func(sim.Config) sim.Policy { return rateMonotonic{} },
	EDF:           func(sim.Config) sim.Policy { return edf{} },
}

// ids in presentation order.
var ids = []string{
	FCFS, SJF, RoundRobin, Priority, PriorityAging, MLQ, RateMonotonic, EDF,
}

// IDs returns the registered policy ids in a stable order.
func IDs() []string {
	return append([]string(nil), ids...)
}

// New builds the policy registered under id. An unknown id is a
// *sim.ValidationError.
func New(id string, cfg sim.Config) (sim.Policy, error) {
	ctor, ok := constructors[id]
	if !ok {
		return nil, sim.NewValidationError("unknown policy %q", id)
	}

	return ctor(cfg.WithDefaults()), nil
}

// Name returns the human-readable name for a policy id, or the id itself
// if it is not registered.
func Name(id string, cfg sim.Config) string {
	p, err := New(id, cfg)
	if err != nil {
		return id
	}
	return p.Name()
}

// minBy returns the ready process that minimizes the given ordering.
// less must be a strict ordering; ties must be broken inside it.
func minBy(ready []*sim.Process, less func(a, b *sim.Process) bool) *sim.Process {
	if len(ready) == 0 {
		return nil
	}

	best := ready[0]
	for _, p := range ready[1:] {
		if less(p, best) {
			best = p
		}
	}

	return best
}

// byArrivalThenPID is the shared tie-breaker.
func byArrivalThenPID(a, b *sim.Process) bool {
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.PID < b.PID
}
