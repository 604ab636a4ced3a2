// Package compare runs the same process set under several policies and
// collects one full result per policy.
package compare

import (
	"runtime"
	"sync"

	"github.com/schedlab/schedsim/policy"
	"github.com/schedlab/schedsim/sim"
	"github.com/schedlab/schedsim/tracing"
)

// A Result is one policy's complete run output.
type Result struct {
	PolicyID   string                 `json:"policy_id"`
	PolicyName string                 `json:"policy_name"`
	Gantt      []tracing.GanttEntry   `json:"gantt"`
	Processes  []tracing.ProcessStats `json:"processes"`
	Statistics tracing.RunStatistics  `json:"statistics"`
	EventLog   []string               `json:"event_log"`
}

// A Runner fans simulations out over a bounded number of workers.
type Runner struct {
	workers int
}

// NewRunner returns a runner using one worker per CPU.
func NewRunner() *Runner {
	return &Runner{workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of concurrent simulations.
func (r *Runner) WithWorkers(n int) *Runner {
	if n > 0 {
		r.workers = n
	}
	return r
}

// Run simulates the process set once per policy id and returns results
// in the order the ids were given. The whole request is validated before
// any simulation starts; each engine builds its own process records, so
// the runs cannot observe each other.
func (r *Runner) Run(
	specs []sim.ProcessSpec,
	policyIDs []string,
	cfg sim.Config,
) ([]Result, error) {
	if len(policyIDs) == 0 {
		return nil, sim.NewValidationError("no policies selected")
	}

	if err := sim.ValidateProcessSet(specs); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, id := range policyIDs {
		if _, err := policy.New(id, cfg); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(policyIDs))
	errs := make([]error, len(policyIDs))
	sem := make(chan struct{}, r.workers)

	var wg sync.WaitGroup
	for i, id := range policyIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i], errs[i] = runOne(specs, id, cfg)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func runOne(
	specs []sim.ProcessSpec,
	policyID string,
	cfg sim.Config,
) (Result, error) {
	pol, err := policy.New(policyID, cfg)
	if err != nil {
		return Result{}, err
	}

	engine, err := sim.NewEngine("compare-"+policyID, specs, pol, cfg)
	if err != nil {
		return Result{}, err
	}

	gantt := tracing.NewGanttRecorder()
	stats := tracing.NewStatsCollector()
	logger := tracing.NewEventLogger()
	engine.AcceptHook(gantt)
	engine.AcceptHook(stats)
	engine.AcceptHook(logger)

	if err := engine.Run(); err != nil {
		return Result{}, err
	}

	return Result{
		PolicyID:   policyID,
		PolicyName: pol.Name(),
		Gantt:      gantt.Entries(),
		Processes:  stats.ProcessReports(),
		Statistics: stats.Statistics(),
		EventLog:   logger.Lines(),
	}, nil
}
