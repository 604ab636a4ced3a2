package sim

// ProcessState is the lifecycle state of a simulated process.
type ProcessState int

// The process lifecycle states.
const (
	StateNew ProcessState = iota
	StateReady
	StateRunning
	StateWaiting
	StateTerminated
)

func (s ProcessState) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateWaiting:
		return "Waiting"
	case StateTerminated:
		return "Terminated"
	}
	return "Unknown"
}

// A ProcessSpec describes one process as provided by the user. It is
// immutable input; each engine builds its own Process records from it.
//
// ExecutionPattern alternates CPU and I/O burst durations, starting with
// a CPU burst. Priority is static, lower value means higher priority.
// Period and Deadline are only meaningful to the real-time policies;
// zero means not applicable.
type ProcessSpec struct {
	PID              int   `json:"pid"`
	ArrivalTime      int   `json:"arrival_time"`
	Priority         int   `json:"priority"`
	ExecutionPattern []int `json:"execution_pattern"`
	Period           int   `json:"period"`
	Deadline         int   `json:"deadline"`
}

// ValidateProcessSet checks a process set for structural errors. It
// returns a *ValidationError for an empty set, a non-positive or
// duplicated PID, a negative arrival time, negative period or deadline,
// or an empty or non-positive execution pattern.
func ValidateProcessSet(specs []ProcessSpec) error {
	if len(specs) == 0 {
		return NewValidationError("process set is empty")
	}

	seen := make(map[int]bool, len(specs))
	for _, s := range specs {
		if s.PID <= 0 {
			return NewValidationError("pid %d is not positive", s.PID)
		}

		if seen[s.PID] {
			return NewValidationError("pid %d is duplicated", s.PID)
		}
		seen[s.PID] = true

		if s.ArrivalTime < 0 {
			return NewValidationError(
				"P%d has negative arrival time %d", s.PID, s.ArrivalTime)
		}

		if s.Period < 0 {
			return NewValidationError(
				"P%d has negative period %d", s.PID, s.Period)
		}

		if s.Deadline < 0 {
			return NewValidationError(
				"P%d has negative deadline %d", s.PID, s.Deadline)
		}

		if len(s.ExecutionPattern) == 0 {
			return NewValidationError("P%d has an empty execution pattern", s.PID)
		}

		for i, d := range s.ExecutionPattern {
			if d <= 0 {
				return NewValidationError(
					"P%d burst %d has non-positive duration %d", s.PID, i, d)
			}
		}
	}

	return nil
}

// A Process is the runtime record the engine keeps for one spec. All the
// run-state fields are owned by the engine; recorders read them through
// hook contexts.
type Process struct {
	PID              int
	ArrivalTime      int
	Priority         int
	ExecutionPattern []int
	Period           int
	Deadline         int

	State            ProcessState
	BurstIndex       int
	RemainingInBurst int
	DynamicPriority  int
	AbsoluteDeadline int
	QueueLevel       int
	SliceUsed        int
	AgingWait        int

	WaitingTime    int
	StartTime      int
	ResponseTime   int
	CompletionTime int

	ioCompleteAt int
}

func newProcess(spec ProcessSpec) *Process {
	p := &Process{
		PID:              spec.PID,
		ArrivalTime:      spec.ArrivalTime,
		Priority:         spec.Priority,
		ExecutionPattern: append([]int(nil), spec.ExecutionPattern...),
		Period:           spec.Period,
		Deadline:         spec.Deadline,

		State:            StateNew,
		RemainingInBurst: spec.ExecutionPattern[0],
		DynamicPriority:  spec.Priority,

		StartTime:      -1,
		ResponseTime:   -1,
		CompletionTime: -1,
	}

	if spec.Deadline > 0 {
		p.AbsoluteDeadline = spec.ArrivalTime + spec.Deadline
	}

	return p
}

// TotalCPUTime returns the sum of the CPU bursts in the pattern.
func (p *Process) TotalCPUTime() int {
	total := 0
	for i := 0; i < len(p.ExecutionPattern); i += 2 {
		total += p.ExecutionPattern[i]
	}
	return total
}

// TurnaroundTime returns CompletionTime - ArrivalTime, or -1 while the
// process has not terminated.
func (p *Process) TurnaroundTime() int {
	if p.CompletionTime < 0 {
		return -1
	}
	return p.CompletionTime - p.ArrivalTime
}

func (p *Process) onCPUBurst() bool {
	return p.BurstIndex%2 == 0
}
