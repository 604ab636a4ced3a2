// Package session drives one interactive simulation at a time: build an
// engine, step it manually or on a timer, and hand out incremental
// views suitable for streaming to a client.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/schedlab/schedsim/policy"
	"github.com/schedlab/schedsim/sim"
	"github.com/schedlab/schedsim/tracing"
)

// A StateError reports a command that is not legal in the session's
// current state, such as stepping before Init or after completion.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return "session: " + e.Reason
}

// A ProcessView is the client-facing snapshot of one process.
type ProcessView struct {
	PID       int `json:"pid"`
	Remaining int `json:"remaining"`
	Priority  int `json:"priority"`
}

// A StatsSnapshot is the running-statistics part of a step result. Final
// is only populated on the completing step.
type StatsSnapshot struct {
	CurrentTime     int                    `json:"current_time"`
	ContextSwitches int                    `json:"context_switches"`
	CPUBusyTime     int                    `json:"cpu_busy_time"`
	Completed       int                    `json:"completed"`
	Total           int                    `json:"total"`
	Final           *tracing.RunStatistics `json:"final,omitempty"`
	Processes       []tracing.ProcessStats `json:"processes,omitempty"`
}

// A StepResult describes what one step changed: new timeline entries and
// log lines since the previous result, plus full queue snapshots.
type StepResult struct {
	NewGantt     []tracing.GanttEntry `json:"new_gantt"`
	NewLogs      []string             `json:"new_logs"`
	Running      *ProcessView         `json:"running"`
	ReadyQueue   []ProcessView        `json:"ready_queue"`
	WaitingQueue []ProcessView        `json:"waiting_queue"`
	Stats        StatsSnapshot        `json:"stats"`
	Complete     bool                 `json:"complete"`
}

// A Controller owns one engine and serializes every command on one
// mutex, so manual steps, the auto-run goroutine, and control commands
// never interleave mid-tick.
type Controller struct {
	mu sync.Mutex

	id     string
	engine *sim.Engine
	gantt  *tracing.GanttRecorder
	stats  *tracing.StatsCollector
	logger *tracing.EventLogger

	ganttCursor int
	logCursor   int

	auto       bool
	cancelAuto context.CancelFunc

	completeDelivered bool
}

// NewController returns an empty controller. Init must be called before
// stepping.
func NewController() *Controller {
	return &Controller{id: xid.New().String()}
}

// ID returns the unique identifier of the session.
func (c *Controller) ID() string {
	return c.id
}

// Init builds a fresh engine for the given process set and policy,
// replacing any previous simulation. It returns the number of processes
// in the request.
func (c *Controller) Init(
	specs []sim.ProcessSpec,
	policyID string,
	cfg sim.Config,
) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAutoLocked()

	pol, err := policy.New(policyID, cfg)
	if err != nil {
		return 0, err
	}

	engine, err := sim.NewEngine("session-"+c.id, specs, pol, cfg)
	if err != nil {
		return 0, err
	}

	c.engine = engine
	c.gantt = tracing.NewGanttRecorder()
	c.stats = tracing.NewStatsCollector()
	c.logger = tracing.NewEventLogger()
	engine.AcceptHook(c.gantt)
	engine.AcceptHook(c.stats)
	engine.AcceptHook(c.logger)

	c.ganttCursor = 0
	c.logCursor = 0
	c.completeDelivered = false

	return len(specs), nil
}

// Step advances the simulation by one tick. It is rejected while an
// auto-run is active, before Init, and after the completing result has
// been delivered.
func (c *Controller) Step() (*StepResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.auto {
		return nil, &StateError{Reason: "cannot step during auto-run"}
	}

	return c.stepLocked()
}

func (c *Controller) stepLocked() (*StepResult, error) {
	if c.engine == nil {
		return nil, &StateError{Reason: "no simulation initialized"}
	}

	if c.completeDelivered {
		return nil, &StateError{Reason: "simulation already complete"}
	}

	// An admission filter can leave nothing to run; such a simulation
	// completes without ticking.
	if !c.engine.Done() {
		if err := c.engine.Tick(); err != nil {
			return nil, err
		}
	}

	return c.buildResultLocked(), nil
}

func (c *Controller) buildResultLocked() *StepResult {
	res := &StepResult{
		ReadyQueue:   views(c.engine.ReadyQueue()),
		WaitingQueue: views(c.engine.WaitingQueue()),
		Complete:     c.engine.Done(),
	}

	res.NewGantt, c.ganttCursor = c.gantt.Since(c.ganttCursor)
	res.NewLogs, c.logCursor = c.logger.Since(c.logCursor)

	if p := c.engine.Running(); p != nil {
		v := view(p)
		res.Running = &v
	}

	res.Stats = StatsSnapshot{
		CurrentTime:     c.engine.Now(),
		ContextSwitches: c.stats.ContextSwitches(),
		CPUBusyTime:     c.stats.BusyTime(),
		Completed:       c.stats.CompletedCount(),
		Total:           c.engine.ProcessCount(),
	}

	if res.Complete {
		final := c.stats.Statistics()
		res.Stats.Final = &final
		res.Stats.Processes = c.stats.ProcessReports()
		c.completeDelivered = true
	}

	return res
}

// Run starts an auto-run stepping the simulation speed times per second
// and delivering each result to emit. Emit is called outside the session
// lock. Run returns immediately; the goroutine stops on completion,
// Pause, or Reset, always between steps.
func (c *Controller) Run(speed float64, emit func(*StepResult)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil {
		return &StateError{Reason: "no simulation initialized"}
	}

	if c.completeDelivered {
		return &StateError{Reason: "simulation already complete"}
	}

	if c.auto {
		return &StateError{Reason: "auto-run already active"}
	}

	if speed <= 0 {
		return sim.NewValidationError("speed %v is not positive", speed)
	}

	interval := time.Duration(float64(time.Second) / speed)
	ctx, cancel := context.WithCancel(context.Background())
	c.auto = true
	c.cancelAuto = cancel

	go c.autoRun(ctx, interval, emit)

	return nil
}

func (c *Controller) autoRun(
	ctx context.Context,
	interval time.Duration,
	emit func(*StepResult),
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		c.mu.Lock()

		// A pause that raced the tick wins: no step after cancellation.
		if ctx.Err() != nil {
			c.mu.Unlock()
			return
		}

		res, err := c.stepLocked()
		if err != nil {
			c.auto = false
			c.mu.Unlock()
			return
		}

		if res.Complete {
			c.auto = false
		}
		c.mu.Unlock()

		if emit != nil {
			emit(res)
		}

		if res.Complete {
			return
		}
	}
}

// Pause stops an active auto-run before its next step. Pausing an idle
// session is a no-op.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAutoLocked()
	return nil
}

// Reset discards the simulation and all recorded output. The controller
// returns to its pre-Init state.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAutoLocked()
	c.engine = nil
	c.gantt = nil
	c.stats = nil
	c.logger = nil
	c.ganttCursor = 0
	c.logCursor = 0
	c.completeDelivered = false

	return nil
}

// Active reports whether an auto-run is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auto
}

// Initialized reports whether a simulation has been built.
func (c *Controller) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine != nil
}

// Now returns the current simulation time, or 0 before Init.
func (c *Controller) Now() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil {
		return 0
	}
	return c.engine.Now()
}

func (c *Controller) stopAutoLocked() {
	if c.auto {
		c.cancelAuto()
		c.auto = false
	}
	c.cancelAuto = nil
}

func view(p *sim.Process) ProcessView {
	return ProcessView{
		PID:       p.PID,
		Remaining: p.RemainingInBurst,
		Priority:  p.DynamicPriority,
	}
}

func views(procs []*sim.Process) []ProcessView {
	vs := make([]ProcessView, 0, len(procs))
	for _, p := range procs {
		vs = append(vs, view(p))
	}
	return vs
}
