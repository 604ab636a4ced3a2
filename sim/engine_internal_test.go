package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type slotCaptureHook struct {
	slots []CPUSlot
}

func (h *slotCaptureHook) Func(ctx HookCtx) {
	if ctx.Pos == HookPosCPUSlot {
		h.slots = append(h.slots, ctx.Item.(CPUSlot))
	}
}

var _ = Describe("Engine with a mock policy", func() {
	var (
		mockCtrl *gomock.Controller
		pol      *MockPolicy
		cfg      Config
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		pol = NewMockPolicy(mockCtrl)
		cfg = Config{TimeSlice: 2}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should ask the policy whenever the CPU is free", func() {
		specs := []ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{1}},
		}

		e, err := NewEngine("engine", specs, pol, cfg)
		Expect(err).To(BeNil())

		p := e.Processes()[0]
		pol.EXPECT().SelectNext(gomock.Any(), 0).Return(p)

		Expect(e.Tick()).To(Succeed())
		Expect(e.Done()).To(BeTrue())
		Expect(p.CompletionTime).To(Equal(1))
	})

	It("should leave the CPU idle when the policy selects nothing", func() {
		specs := []ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{1}},
		}

		e, err := NewEngine("engine", specs, pol, cfg)
		Expect(err).To(BeNil())

		hook := &slotCaptureHook{}
		e.AcceptHook(hook)

		p := e.Processes()[0]
		pol.EXPECT().SelectNext(gomock.Any(), 0).Return(nil)
		pol.EXPECT().SelectNext(gomock.Any(), 1).Return(p)

		Expect(e.Tick()).To(Succeed())
		Expect(e.Tick()).To(Succeed())

		Expect(hook.slots).To(Equal([]CPUSlot{
			{Subject: SubjectIdle, Start: 0, End: 1},
			{Subject: 1, Start: 1, End: 2},
		}))
		Expect(e.IdleTime()).To(Equal(1))
		Expect(p.WaitingTime).To(Equal(1))
	})

	It("should consult the policy before preempting", func() {
		specs := []ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{3}},
			{PID: 2, ArrivalTime: 1, ExecutionPattern: []int{3}},
		}

		e, err := NewEngine("engine", specs, pol, cfg)
		Expect(err).To(BeNil())

		p1 := e.Processes()[0]
		p2 := e.Processes()[1]

		pol.EXPECT().SelectNext(gomock.Any(), 0).Return(p1)
		pol.EXPECT().ShouldPreempt(p1, gomock.Any(), 1).Return(true)
		pol.EXPECT().SelectNext(gomock.Any(), 1).Return(p2)

		Expect(e.Tick()).To(Succeed())
		Expect(e.Tick()).To(Succeed())

		Expect(e.Running()).To(BeIdenticalTo(p2))
		Expect(p1.State).To(Equal(StateReady))
	})

	It("should not consult the policy while the ready queue is empty", func() {
		specs := []ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{3}},
		}

		e, err := NewEngine("engine", specs, pol, cfg)
		Expect(err).To(BeNil())

		p := e.Processes()[0]
		pol.EXPECT().SelectNext(gomock.Any(), 0).Return(p)

		Expect(e.Tick()).To(Succeed())
		Expect(e.Tick()).To(Succeed())
		Expect(e.Running()).To(BeIdenticalTo(p))
	})

	It("should refuse to tick a completed run", func() {
		specs := []ProcessSpec{
			{PID: 1, ArrivalTime: 0, ExecutionPattern: []int{1}},
		}

		e, err := NewEngine("engine", specs, pol, cfg)
		Expect(err).To(BeNil())

		p := e.Processes()[0]
		pol.EXPECT().SelectNext(gomock.Any(), 0).Return(p)

		Expect(e.Tick()).To(Succeed())
		Expect(e.Tick()).To(MatchError(ErrRunComplete))
	})
})
