package sim

import (
	"fmt"

	"github.com/rs/xid"
)

// An Engine simulates one scheduling run: one CPU, one policy, one
// process set. Time advances in unit ticks; recorders observe the run
// through hooks. Engine methods are not safe for concurrent use; the
// session controller serializes access.
type Engine struct {
	HookableBase

	id     string
	name   string
	policy Policy
	cfg    Config

	now     int
	procs   []*Process
	pending []*Process
	ready   []*Process
	waiting []*Process
	running *Process

	// lastPID is the PID of the last process that occupied the CPU, 0
	// before the first dispatch. Switching away from it is what costs
	// overhead.
	lastPID int

	inSwitch        bool
	switchRemaining int
	switchTarget    *Process

	terminated      int
	contextSwitches int
	busyTime        int
	idleTime        int
}

// NewEngine validates the process set and the configuration, applies the
// policy's admission filter if it has one, and returns an engine ready
// to tick. No state is mutated on a validation failure.
func NewEngine(
	name string,
	specs []ProcessSpec,
	policy Policy,
	cfg Config,
) (*Engine, error) {
	if policy == nil {
		return nil, NewValidationError("no policy given")
	}

	if err := ValidateProcessSet(specs); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		id:     xid.New().String(),
		name:   name,
		policy: policy,
		cfg:    cfg.WithDefaults(),
	}

	admitter, filtering := policy.(Admitter)
	for _, s := range specs {
		if filtering && !admitter.Admits(s) {
			continue
		}

		p := newProcess(s)
		e.procs = append(e.procs, p)
		e.pending = append(e.pending, p)
	}

	return e, nil
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// ID returns the unique identifier of the engine.
func (e *Engine) ID() string {
	return e.id
}

// Now returns the current simulation time.
func (e *Engine) Now() int {
	return e.now
}

// Done reports whether every admitted process has terminated. An engine
// whose admission filter rejected every process is done at time 0.
func (e *Engine) Done() bool {
	return e.terminated == len(e.procs)
}

// Policy returns the scheduling policy driving the engine.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Running returns the process currently holding the CPU, or nil.
func (e *Engine) Running() *Process {
	return e.running
}

// ReadyQueue returns a copy of the ready queue in FIFO order.
func (e *Engine) ReadyQueue() []*Process {
	return append([]*Process(nil), e.ready...)
}

// WaitingQueue returns a copy of the processes blocked on I/O.
func (e *Engine) WaitingQueue() []*Process {
	return append([]*Process(nil), e.waiting...)
}

// Processes returns a copy of all admitted processes in input order.
func (e *Engine) Processes() []*Process {
	return append([]*Process(nil), e.procs...)
}

// ProcessCount returns the number of admitted processes.
func (e *Engine) ProcessCount() int {
	return len(e.procs)
}

// ContextSwitches returns the number of counted context switches.
func (e *Engine) ContextSwitches() int {
	return e.contextSwitches
}

// BusyTime returns the number of ticks a process held the CPU.
func (e *Engine) BusyTime() int {
	return e.busyTime
}

// IdleTime returns the number of ticks the CPU sat idle.
func (e *Engine) IdleTime() int {
	return e.idleTime
}

// Run ticks the engine until every admitted process has terminated.
func (e *Engine) Run() error {
	for !e.Done() {
		if err := e.Tick(); err != nil {
			return err
		}
	}

	return nil
}

// Tick advances the simulation by one time unit. It returns
// ErrRunComplete if the run is already complete.
func (e *Engine) Tick() error {
	if e.Done() {
		return ErrRunComplete
	}

	if e.now >= maxSimulationTime {
		return fmt.Errorf("simulation exceeded %d ticks", maxSimulationTime)
	}

	if e.inSwitch {
		e.switchTick()
		e.finishTick()
		return nil
	}

	e.admitArrivals()
	e.completeIO()

	if e.Done() {
		e.invoke(HookPosRunComplete, nil, nil)
		return nil
	}

	if ager, ok := e.policy.(Ager); ok && len(e.ready) > 0 {
		ager.Age(e.ready, e.now)
	}

	e.enforceQuantum()
	e.checkPreemption()

	if e.running == nil {
		e.dispatch()
	}

	switch {
	case e.inSwitch:
		e.switchTick()
	case e.running != nil:
		e.execute()
	default:
		e.emitSlot(SubjectIdle)
		e.idleTime++
	}

	e.finishTick()
	return nil
}

func (e *Engine) finishTick() {
	for _, p := range e.ready {
		p.WaitingTime++
	}

	e.now++

	if e.Done() {
		e.invoke(HookPosRunComplete, nil, nil)
	}
}

// switchTick burns one tick of context-switch overhead. The target is
// installed on the tick the overhead reaches zero, so the CPU track has
// no hole between the switch interval and the first execution tick.
func (e *Engine) switchTick() {
	e.emitSlot(SubjectContextSwitch)
	e.switchTarget.WaitingTime++

	e.switchRemaining--
	if e.switchRemaining == 0 {
		target := e.switchTarget
		e.inSwitch = false
		e.switchTarget = nil
		e.install(target)
	}
}

// admitArrivals moves every not-yet-admitted process whose arrival time
// has passed to the tail of the ready queue. Arrivals that fell inside a
// context-switch interval are caught up here.
func (e *Engine) admitArrivals() {
	remaining := e.pending[:0]
	for _, p := range e.pending {
		if p.ArrivalTime > e.now {
			remaining = append(remaining, p)
			continue
		}

		p.State = StateReady
		e.ready = append(e.ready, p)
		e.invoke(HookPosProcessArrive, p, nil)
	}
	e.pending = remaining
}

func (e *Engine) completeIO() {
	remaining := e.waiting[:0]
	for _, p := range e.waiting {
		if p.ioCompleteAt > e.now {
			remaining = append(remaining, p)
			continue
		}

		p.BurstIndex++
		if p.BurstIndex >= len(p.ExecutionPattern) {
			e.terminate(p, p.ioCompleteAt)
			continue
		}

		p.State = StateReady
		p.RemainingInBurst = p.ExecutionPattern[p.BurstIndex]
		e.ready = append(e.ready, p)
		e.invoke(HookPosIOComplete, p, nil)
	}
	e.waiting = remaining
}

func (e *Engine) enforceQuantum() {
	if e.running == nil {
		return
	}

	slicer, ok := e.policy.(Slicer)
	if !ok {
		return
	}

	limit := slicer.TimeSlice(e.running)
	if limit <= 0 || e.running.SliceUsed < limit {
		return
	}

	p := e.running
	e.invoke(HookPosQuantumExpire, p, nil)

	if demoter, ok := e.policy.(Demoter); ok {
		demoter.Demote(p)
	}

	p.State = StateReady
	p.SliceUsed = 0
	e.running = nil
	e.ready = append(e.ready, p)
}

func (e *Engine) checkPreemption() {
	if e.running == nil || len(e.ready) == 0 {
		return
	}

	if !e.policy.ShouldPreempt(e.running, e.ready, e.now) {
		return
	}

	p := e.running
	e.invoke(HookPosPreempt, p, nil)

	p.State = StateReady
	p.SliceUsed = 0
	e.running = nil
	e.ready = append(e.ready, p)
}

// dispatch asks the policy for the next process. Dispatching a process
// other than the last CPU occupant counts one context switch; the very
// first dispatch and same-process resumption are free. With a non-zero
// overhead the switch interval starts on this tick.
func (e *Engine) dispatch() {
	next := e.policy.SelectNext(e.ready, e.now)
	if next == nil {
		return
	}

	e.removeFromReady(next)

	if observer, ok := e.policy.(DispatchObserver); ok {
		observer.ObserveDispatch(next, e.now)
	}

	if e.lastPID != 0 && e.lastPID != next.PID {
		e.contextSwitches++
		e.invoke(HookPosContextSwitch,
			Switch{FromPID: e.lastPID, ToPID: next.PID}, nil)

		if e.cfg.ContextSwitchOverhead > 0 {
			e.inSwitch = true
			e.switchRemaining = e.cfg.ContextSwitchOverhead
			e.switchTarget = next
			e.lastPID = next.PID
			return
		}
	}

	e.install(next)
}

func (e *Engine) install(p *Process) {
	p.State = StateRunning
	p.SliceUsed = 0
	e.running = p
	e.lastPID = p.PID
	e.invoke(HookPosDispatch, p, nil)
}

func (e *Engine) execute() {
	p := e.running
	e.emitSlot(p.PID)

	if p.StartTime < 0 {
		p.StartTime = e.now
		p.ResponseTime = e.now - p.ArrivalTime
	}

	p.RemainingInBurst--
	p.SliceUsed++
	e.busyTime++

	if p.RemainingInBurst > 0 {
		return
	}

	p.BurstIndex++
	if p.BurstIndex >= len(p.ExecutionPattern) {
		e.terminate(p, e.now+1)
		e.running = nil
		return
	}

	dur := p.ExecutionPattern[p.BurstIndex]
	p.State = StateWaiting
	p.SliceUsed = 0
	p.ioCompleteAt = e.now + 1 + dur
	e.waiting = append(e.waiting, p)
	e.invoke(HookPosProcessBlock, p,
		IOSpan{PID: p.PID, Start: e.now + 1, End: p.ioCompleteAt})
	e.running = nil
}

func (e *Engine) terminate(p *Process, at int) {
	p.State = StateTerminated
	p.CompletionTime = at
	e.terminated++
	e.invoke(HookPosProcessTerminate, p, nil)
}

func (e *Engine) removeFromReady(target *Process) {
	for i, p := range e.ready {
		if p == target {
			e.ready = append(e.ready[:i], e.ready[i+1:]...)
			return
		}
	}
}

func (e *Engine) emitSlot(subject int) {
	e.invoke(HookPosCPUSlot,
		CPUSlot{Subject: subject, Start: e.now, End: e.now + 1}, nil)
}

func (e *Engine) invoke(pos *HookPos, item, detail any) {
	e.InvokeHook(HookCtx{
		Domain: e,
		Now:    e.now,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}
