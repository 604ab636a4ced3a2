package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/schedlab/schedsim/policy"
	"github.com/schedlab/schedsim/sim"
	"github.com/schedlab/schedsim/tracing"
)

func runScenario(
	specs []sim.ProcessSpec,
	policyID string,
	cfg sim.Config,
) (*sim.Engine, *tracing.GanttRecorder, *tracing.StatsCollector) {
	pol, err := policy.New(policyID, cfg)
	Expect(err).To(BeNil())

	e, err := sim.NewEngine("test", specs, pol, cfg)
	Expect(err).To(BeNil())

	gantt := tracing.NewGanttRecorder()
	stats := tracing.NewStatsCollector()
	e.AcceptHook(gantt)
	e.AcceptHook(stats)

	Expect(e.Run()).To(Succeed())

	return e, gantt, stats
}

func cpuTrack(entries []tracing.GanttEntry) []tracing.GanttEntry {
	track := make([]tracing.GanttEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Label == tracing.LabelRunning {
			track = append(track, entry)
		}
	}
	return track
}

func processByPID(e *sim.Engine, pid int) *sim.Process {
	for _, p := range e.Processes() {
		if p.PID == pid {
			return p
		}
	}
	return nil
}

var _ = Describe("Engine running FCFS", func() {
	It("should schedule three staggered arrivals in arrival order", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{5}},
			{PID: 2, ArrivalTime: 1, ExecutionPattern: []int{3}},
			{PID: 3, ArrivalTime: 2, ExecutionPattern: []int{1}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, gantt, _ := runScenario(specs, policy.FCFS, cfg)

		Expect(cpuTrack(gantt.Entries())).To(Equal([]tracing.GanttEntry{
			{Subject: 1, Start: 0, End: 5, Label: tracing.LabelRunning},
			{Subject: 2, Start: 5, End: 8, Label: tracing.LabelRunning},
			{Subject: 3, Start: 8, End: 9, Label: tracing.LabelRunning},
		}))

		Expect(processByPID(e, 1).WaitingTime).To(Equal(0))
		Expect(processByPID(e, 2).WaitingTime).To(Equal(4))
		Expect(processByPID(e, 3).WaitingTime).To(Equal(6))

		Expect(processByPID(e, 1).TurnaroundTime()).To(Equal(5))
		Expect(processByPID(e, 2).TurnaroundTime()).To(Equal(7))
		Expect(processByPID(e, 3).TurnaroundTime()).To(Equal(7))
	})

	It("should idle until a late arrival and still count the switch", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{2}},
			{PID: 2, ArrivalTime: 5, ExecutionPattern: []int{2}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, gantt, _ := runScenario(specs, policy.FCFS, cfg)

		Expect(cpuTrack(gantt.Entries())).To(Equal([]tracing.GanttEntry{
			{Subject: 1, Start: 0, End: 2, Label: tracing.LabelRunning},
			{Subject: sim.SubjectIdle, Start: 2, End: 5, Label: tracing.LabelRunning},
			{Subject: 2, Start: 5, End: 7, Label: tracing.LabelRunning},
		}))
		Expect(e.ContextSwitches()).To(Equal(1))
	})

	It("should park a process on the I/O track and resume it", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{2, 3, 2}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, gantt, _ := runScenario(specs, policy.FCFS, cfg)

		Expect(gantt.Entries()).To(ContainElement(tracing.GanttEntry{
			Subject: 1, Start: 2, End: 5, Label: tracing.LabelWaiting,
		}))
		Expect(cpuTrack(gantt.Entries())).To(Equal([]tracing.GanttEntry{
			{Subject: 1, Start: 0, End: 2, Label: tracing.LabelRunning},
			{Subject: sim.SubjectIdle, Start: 2, End: 5, Label: tracing.LabelRunning},
			{Subject: 1, Start: 5, End: 7, Label: tracing.LabelRunning},
		}))

		p := processByPID(e, 1)
		Expect(p.CompletionTime).To(Equal(7))
		Expect(p.WaitingTime).To(Equal(0))
		Expect(p.ResponseTime).To(Equal(0))
	})
})

var _ = Describe("Engine running Round-Robin", func() {
	It("should rotate two processes on a quantum of 2", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{5}},
			{PID: 2, ArrivalTime: 0, ExecutionPattern: []int{3}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, gantt, _ := runScenario(specs, policy.RoundRobin, cfg)

		Expect(cpuTrack(gantt.Entries())).To(Equal([]tracing.GanttEntry{
			{Subject: 1, Start: 0, End: 2, Label: tracing.LabelRunning},
			{Subject: 2, Start: 2, End: 4, Label: tracing.LabelRunning},
			{Subject: 1, Start: 4, End: 6, Label: tracing.LabelRunning},
			{Subject: 2, Start: 6, End: 7, Label: tracing.LabelRunning},
			{Subject: 1, Start: 7, End: 8, Label: tracing.LabelRunning},
		}))

		Expect(processByPID(e, 1).WaitingTime).To(Equal(3))
		Expect(processByPID(e, 2).WaitingTime).To(Equal(4))
	})

	It("should not pay overhead when a quantum expires back to the same process", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{5}},
		}
		cfg := sim.Config{TimeSlice: 2, ContextSwitchOverhead: 2}

		e, gantt, _ := runScenario(specs, policy.RoundRobin, cfg)

		Expect(cpuTrack(gantt.Entries())).To(Equal([]tracing.GanttEntry{
			{Subject: 1, Start: 0, End: 5, Label: tracing.LabelRunning},
		}))
		Expect(e.ContextSwitches()).To(Equal(0))
	})
})

var _ = Describe("Engine with context-switch overhead", func() {
	It("should charge the overhead between two different processes", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{2}},
			{PID: 2, ArrivalTime: 0, ExecutionPattern: []int{2}},
		}
		cfg := sim.Config{TimeSlice: 4, ContextSwitchOverhead: 1}

		e, gantt, stats := runScenario(specs, policy.FCFS, cfg)

		Expect(cpuTrack(gantt.Entries())).To(Equal([]tracing.GanttEntry{
			{Subject: 1, Start: 0, End: 2, Label: tracing.LabelRunning},
			{Subject: sim.SubjectContextSwitch, Start: 2, End: 3, Label: tracing.LabelRunning},
			{Subject: 2, Start: 3, End: 5, Label: tracing.LabelRunning},
		}))

		Expect(e.ContextSwitches()).To(Equal(1))

		p2 := processByPID(e, 2)
		Expect(p2.ResponseTime).To(Equal(3))
		Expect(p2.WaitingTime).To(Equal(3))
		Expect(p2.CompletionTime).To(Equal(5))

		Expect(stats.Statistics().CPUUtilization).To(
			BeNumerically("~", 4.0/5.0, 1e-9))
	})

	It("should keep the CPU track contiguous across longer switches", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{3}},
			{PID: 2, ArrivalTime: 1, ExecutionPattern: []int{3}},
		}
		cfg := sim.Config{TimeSlice: 4, ContextSwitchOverhead: 3}

		_, gantt, _ := runScenario(specs, policy.FCFS, cfg)

		track := cpuTrack(gantt.Entries())
		Expect(track[0].Start).To(Equal(0))
		for i := 1; i < len(track); i++ {
			Expect(track[i].Start).To(Equal(track[i-1].End))
		}
	})
})

var _ = Describe("Engine running preemptive policies", func() {
	It("should preempt for a shorter remaining burst under SJF", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{8}},
			{PID: 2, ArrivalTime: 1, ExecutionPattern: []int{4}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, gantt, _ := runScenario(specs, policy.SJF, cfg)

		Expect(cpuTrack(gantt.Entries())).To(Equal([]tracing.GanttEntry{
			{Subject: 1, Start: 0, End: 1, Label: tracing.LabelRunning},
			{Subject: 2, Start: 1, End: 5, Label: tracing.LabelRunning},
			{Subject: 1, Start: 5, End: 12, Label: tracing.LabelRunning},
		}))
		Expect(processByPID(e, 2).CompletionTime).To(Equal(5))
	})

	It("should preempt for a higher static priority", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, Priority: 3, ExecutionPattern: []int{5}},
			{PID: 2, ArrivalTime: 1, Priority: 1, ExecutionPattern: []int{2}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, _, _ := runScenario(specs, policy.Priority, cfg)

		Expect(processByPID(e, 2).CompletionTime).To(Equal(3))
		Expect(processByPID(e, 1).CompletionTime).To(Equal(7))
	})

	It("should eventually boost a starving process under aging", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, Priority: 5, ExecutionPattern: []int{100}},
			{PID: 2, ArrivalTime: 1, Priority: 9, ExecutionPattern: []int{2}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, _, _ := runScenario(specs, policy.PriorityAging, cfg)

		// P2's dynamic priority drops below P1's static 5 after 50 ready
		// ticks, so it gets a tick at t=50 long before P1's burst ends.
		// The boost resets on dispatch, so P1 preempts right back.
		Expect(processByPID(e, 2).ResponseTime).To(Equal(49))
		Expect(processByPID(e, 1).CompletionTime).To(Equal(101))
		Expect(processByPID(e, 2).CompletionTime).To(Equal(102))
	})

	It("should demote a CPU hog one tier at a time under MLQ", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{20}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, gantt, _ := runScenario(specs, policy.MLQ, cfg)

		p := processByPID(e, 1)
		Expect(p.CompletionTime).To(Equal(20))
		Expect(p.QueueLevel).To(Equal(1))
		Expect(cpuTrack(gantt.Entries())).To(HaveLen(1))
	})

	It("should let a tier-0 arrival preempt a demoted process", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{30}},
			{PID: 2, ArrivalTime: 10, ExecutionPattern: []int{2}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, _, _ := runScenario(specs, policy.MLQ, cfg)

		Expect(processByPID(e, 2).ResponseTime).To(Equal(0))
		Expect(processByPID(e, 2).CompletionTime).To(Equal(12))
	})
})

var _ = Describe("Engine running real-time policies", func() {
	It("should admit only periodic processes under RM", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{3}, Period: 10},
			{PID: 2, ArrivalTime: 0, ExecutionPattern: []int{3}, Period: 5},
			{PID: 3, ArrivalTime: 0, ExecutionPattern: []int{3}},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, gantt, _ := runScenario(specs, policy.RateMonotonic, cfg)

		Expect(e.ProcessCount()).To(Equal(2))
		Expect(cpuTrack(gantt.Entries())).To(Equal([]tracing.GanttEntry{
			{Subject: 2, Start: 0, End: 3, Label: tracing.LabelRunning},
			{Subject: 1, Start: 3, End: 6, Label: tracing.LabelRunning},
		}))
	})

	It("should order by absolute deadline under EDF", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{4}, Deadline: 20},
			{PID: 2, ArrivalTime: 1, ExecutionPattern: []int{2}, Deadline: 4},
		}
		cfg := sim.Config{TimeSlice: 2}

		e, _, _ := runScenario(specs, policy.EDF, cfg)

		// P2's absolute deadline is 5, earlier than P1's 20, so it
		// preempts at its arrival.
		Expect(processByPID(e, 2).CompletionTime).To(Equal(3))
		Expect(processByPID(e, 1).CompletionTime).To(Equal(7))
	})

	It("should complete immediately when no process is admitted", func() {
		specs := []sim.ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{3}},
		}
		cfg := sim.Config{TimeSlice: 2}

		pol, err := policy.New(policy.EDF, cfg)
		Expect(err).To(BeNil())

		e, err := sim.NewEngine("test", specs, pol, cfg)
		Expect(err).To(BeNil())

		Expect(e.Done()).To(BeTrue())
		Expect(e.Run()).To(Succeed())
		Expect(e.Now()).To(Equal(0))
	})
})
