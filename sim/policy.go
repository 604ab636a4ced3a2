package sim

// A Policy decides which ready process runs next and whether a running
// process should lose the CPU. Implementations must not retain the ready
// slice across calls.
type Policy interface {
	// ID returns the stable identifier the policy is registered under.
	ID() string

	// Name returns the human-readable policy name.
	Name() string

	// SelectNext picks the process to dispatch from the ready queue, or
	// returns nil to leave the CPU idle. The ready slice is in FIFO
	// order.
	SelectNext(ready []*Process, now int) *Process

	// ShouldPreempt reports whether the running process should be
	// returned to the ready queue in favor of a ready one. It is only
	// called while a process is running and the ready queue is
	// non-empty.
	ShouldPreempt(running *Process, ready []*Process, now int) bool
}

// An Ager adjusts dynamic priorities of ready processes once per tick.
type Ager interface {
	Age(ready []*Process, now int)
}

// A Slicer limits how long one dispatch may hold the CPU. A returned
// slice of 0 means unbounded for that process.
type Slicer interface {
	TimeSlice(p *Process) int
}

// A Demoter adjusts a process that exhausted its time slice before it is
// requeued.
type Demoter interface {
	Demote(p *Process)
}

// An Admitter filters the process set at engine construction. Processes
// it rejects take no part in the run.
type Admitter interface {
	Admits(spec ProcessSpec) bool
}

// A DispatchObserver is notified when a process it manages is installed
// on the CPU.
type DispatchObserver interface {
	ObserveDispatch(p *Process, now int)
}
