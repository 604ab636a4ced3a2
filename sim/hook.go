package sim

// HookPos defines the possible hook positions.
type HookPos struct {
	Name string
}

// Hook positions invoked by the engine. Item carries the *Process the
// event concerns, except for HookPosCPUSlot (a CPUSlot) and
// HookPosContextSwitch (a Switch).
var (
	// HookPosProcessArrive is triggered when a process enters the ready
	// queue at its arrival time.
	HookPosProcessArrive = &HookPos{Name: "ProcessArrive"}

	// HookPosIOComplete is triggered when a process finishes an I/O burst
	// and re-enters the ready queue.
	HookPosIOComplete = &HookPos{Name: "IOComplete"}

	// HookPosDispatch is triggered when a process is installed on the CPU.
	HookPosDispatch = &HookPos{Name: "Dispatch"}

	// HookPosPreempt is triggered when the running process is preempted
	// by the policy.
	HookPosPreempt = &HookPos{Name: "Preempt"}

	// HookPosQuantumExpire is triggered when the running process exhausts
	// its time slice.
	HookPosQuantumExpire = &HookPos{Name: "QuantumExpire"}

	// HookPosContextSwitch is triggered once per counted context switch,
	// with a Switch as the item.
	HookPosContextSwitch = &HookPos{Name: "ContextSwitch"}

	// HookPosProcessBlock is triggered when a process starts an I/O
	// burst, with an IOSpan as the detail.
	HookPosProcessBlock = &HookPos{Name: "ProcessBlock"}

	// HookPosProcessTerminate is triggered when a process completes its
	// last burst.
	HookPosProcessTerminate = &HookPos{Name: "ProcessTerminate"}

	// HookPosCPUSlot is triggered every tick with a CPUSlot describing
	// who occupied the CPU for that tick.
	HookPosCPUSlot = &HookPos{Name: "CPUSlot"}

	// HookPosRunComplete is triggered once, on the tick that terminates
	// the last admitted process.
	HookPosRunComplete = &HookPos{Name: "RunComplete"}
)

// Sentinel CPU-slot subjects for ticks not occupied by a process.
const (
	SubjectIdle          = -1
	SubjectContextSwitch = -2
)

// A CPUSlot describes one tick of CPU occupancy. Subject is a PID, or
// SubjectIdle/SubjectContextSwitch.
type CPUSlot struct {
	Subject int
	Start   int
	End     int
}

// A Switch describes one counted context switch.
type Switch struct {
	FromPID int
	ToPID   int
}

// An IOSpan describes one I/O burst on the waiting track.
type IOSpan struct {
	PID   int
	Start int
	End   int
}

// HookCtx is the context provided to a hook.
type HookCtx struct {
	Domain Hookable
	Now    int
	Pos    *HookPos
	Item   any
	Detail any
}

// Hook is a short piece of program that can be invoked by a hookable
// object.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable is an object that accepts hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)
}

// HookableBase provides the basic logic to implement a hookable object.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook invokes all the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
