package tracing

import (
	"fmt"
	"sync"

	"github.com/schedlab/schedsim/sim"
)

// An EventLogger renders scheduling events as human-readable lines.
// Lines accumulate in order; Since provides the delta view the
// interactive protocol streams to clients.
type EventLogger struct {
	mu    sync.Mutex
	lines []string
}

// NewEventLogger returns a logger ready to attach to an engine.
func NewEventLogger() *EventLogger {
	return &EventLogger{}
}

// Func formats one line per scheduling event.
func (l *EventLogger) Func(ctx sim.HookCtx) {
	var msg string

	switch ctx.Pos {
	case sim.HookPosProcessArrive:
		msg = fmt.Sprintf("P%d arrived -> ready queue", pid(ctx))
	case sim.HookPosIOComplete:
		msg = fmt.Sprintf("P%d I/O completed -> ready queue", pid(ctx))
	case sim.HookPosDispatch:
		msg = fmt.Sprintf("P%d -> running", pid(ctx))
	case sim.HookPosPreempt:
		msg = fmt.Sprintf("P%d preempted -> ready queue", pid(ctx))
	case sim.HookPosQuantumExpire:
		msg = fmt.Sprintf("P%d time slice expired -> ready queue", pid(ctx))
	case sim.HookPosProcessBlock:
		span := ctx.Detail.(sim.IOSpan)
		msg = fmt.Sprintf("P%d -> I/O (duration=%d) -> waiting",
			span.PID, span.End-span.Start)
	case sim.HookPosContextSwitch:
		sw := ctx.Item.(sim.Switch)
		msg = fmt.Sprintf("context switch: P%d -> P%d", sw.FromPID, sw.ToPID)
	case sim.HookPosProcessTerminate:
		p := ctx.Item.(*sim.Process)
		msg = fmt.Sprintf("P%d terminated (waiting=%d, turnaround=%d)",
			p.PID, p.WaitingTime, p.TurnaroundTime())
	case sim.HookPosRunComplete:
		msg = "all processes terminated"
	default:
		return
	}

	l.mu.Lock()
	l.lines = append(l.lines, fmt.Sprintf("[T=%3d] %s", ctx.Now, msg))
	l.mu.Unlock()
}

func pid(ctx sim.HookCtx) int {
	return ctx.Item.(*sim.Process).PID
}

// Lines returns a copy of all lines logged so far.
func (l *EventLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Since returns the lines logged after the cursor and the new cursor.
func (l *EventLogger) Since(cursor int) ([]string, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cursor > len(l.lines) {
		cursor = len(l.lines)
	}

	delta := append([]string(nil), l.lines[cursor:]...)
	return delta, len(l.lines)
}
