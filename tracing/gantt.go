// Package tracing provides hooks that record a scheduling run: the
// Gantt timeline, the run statistics, and the human-readable event log.
// Recorders attach to an engine with AcceptHook and can be queried at
// any time, including while the run is still in progress.
package tracing

import (
	"sync"

	"github.com/schedlab/schedsim/sim"
)

// Gantt entry labels.
const (
	LabelRunning = "Running"
	LabelWaiting = "Waiting"
)

// A GanttEntry is one half-open interval [Start, End) on the timeline.
// CPU-track entries carry LabelRunning and a PID subject, or the
// sim.SubjectIdle / sim.SubjectContextSwitch sentinels. I/O intervals
// carry LabelWaiting on a per-process track.
type GanttEntry struct {
	Subject int    `json:"subject"`
	Start   int    `json:"start_time"`
	End     int    `json:"end_time"`
	Label   string `json:"label"`
}

// A GanttRecorder builds the timeline from CPU-slot and I/O hooks.
// Consecutive same-subject CPU slots coalesce into one entry. The
// recorder is safe for concurrent queries while the engine ticks under
// the session lock.
type GanttRecorder struct {
	mu sync.Mutex

	closed []GanttEntry
	open   *GanttEntry
}

// NewGanttRecorder returns a recorder ready to attach to an engine.
func NewGanttRecorder() *GanttRecorder {
	return &GanttRecorder{}
}

// Func records CPU slots, I/O spans, and the end of the run.
func (r *GanttRecorder) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosCPUSlot:
		r.recordSlot(ctx.Item.(sim.CPUSlot))
	case sim.HookPosProcessBlock:
		r.recordIO(ctx.Detail.(sim.IOSpan))
	case sim.HookPosRunComplete:
		r.closeOpen()
	}
}

func (r *GanttRecorder) recordSlot(slot sim.CPUSlot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open != nil &&
		r.open.Subject == slot.Subject &&
		r.open.End == slot.Start {
		r.open.End = slot.End
		return
	}

	if r.open != nil {
		r.closed = append(r.closed, *r.open)
	}

	r.open = &GanttEntry{
		Subject: slot.Subject,
		Start:   slot.Start,
		End:     slot.End,
		Label:   LabelRunning,
	}
}

func (r *GanttRecorder) recordIO(span sim.IOSpan) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// I/O spans interleave with the CPU track in the order the engine
	// emitted them, so the current CPU interval closes first.
	if r.open != nil {
		r.closed = append(r.closed, *r.open)
		r.open = nil
	}

	r.closed = append(r.closed, GanttEntry{
		Subject: span.PID,
		Start:   span.Start,
		End:     span.End,
		Label:   LabelWaiting,
	})
}

func (r *GanttRecorder) closeOpen() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open != nil {
		r.closed = append(r.closed, *r.open)
		r.open = nil
	}
}

// Entries returns the timeline recorded so far, including the interval
// still being coalesced if the run is in progress.
func (r *GanttRecorder) Entries() []GanttEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append([]GanttEntry(nil), r.closed...)
	if r.open != nil {
		entries = append(entries, *r.open)
	}
	return entries
}

// Since returns the entries finalized after the given cursor and the new
// cursor position. Intervals still being coalesced are not reported
// until they close, so an entry is never delivered twice.
func (r *GanttRecorder) Since(cursor int) ([]GanttEntry, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cursor > len(r.closed) {
		cursor = len(r.closed)
	}

	delta := append([]GanttEntry(nil), r.closed[cursor:]...)
	return delta, len(r.closed)
}
