package monitoring

import (
	"github.com/schedlab/schedsim/sim"
)

// A SampleSet is a named process set bundled for demos and smoke tests.
type SampleSet struct {
	Name      string            `json:"name"`
	Processes []sim.ProcessSpec `json:"processes"`
}

// SampleSets returns the bundled example process sets: a CPU-only trio,
// a set with I/O bursts, and a real-time set usable with RM and EDF.
func SampleSets() []SampleSet {
	return []SampleSet{
		{
			Name: "Basic (3 CPU-bound processes)",
			Processes: []sim.ProcessSpec{
				{PID: 1, ArrivalTime: 0, Priority: 1, ExecutionPattern: []int{10}},
				{PID: 2, ArrivalTime: 2, Priority: 2, ExecutionPattern: []int{5}},
				{PID: 3, ArrivalTime: 5, Priority: 3, ExecutionPattern: []int{15}},
			},
		},
		{
			Name: "With I/O bursts (3 processes)",
			Processes: []sim.ProcessSpec{
				{PID: 1, ArrivalTime: 0, Priority: 1, ExecutionPattern: []int{5, 3, 5}},
				{PID: 2, ArrivalTime: 1, Priority: 2, ExecutionPattern: []int{3, 2, 3}},
				{PID: 3, ArrivalTime: 2, Priority: 3, ExecutionPattern: []int{8}},
			},
		},
		{
			Name: "Real-time (for RM/EDF)",
			Processes: []sim.ProcessSpec{
				{PID: 1, ArrivalTime: 0, Priority: 1, ExecutionPattern: []int{2}, Period: 5, Deadline: 5},
				{PID: 2, ArrivalTime: 0, Priority: 2, ExecutionPattern: []int{3}, Period: 10, Deadline: 10},
				{PID: 3, ArrivalTime: 0, Priority: 3, ExecutionPattern: []int{1}, Period: 20, Deadline: 20},
			},
		},
	}
}
