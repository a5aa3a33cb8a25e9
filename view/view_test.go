package view_test

import (
	"bytes"
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/scheduler"
	"github.com/sarchlab/procsched/view"
)

var _ = Describe("KeyMap", func() {
	keys := view.DefaultKeyMap()

	DescribeTable("Lookup",
		func(key string, expected scheduler.Command) {
			Expect(keys.Lookup(key)).To(Equal(expected))
		},
		Entry("interrupt", "i", scheduler.CommandInterrupt),
		Entry("error", "E", scheduler.CommandFail),
		Entry("pause", "p", scheduler.CommandTogglePause),
		Entry("continue", "c", scheduler.CommandResume),
		Entry("unbound", "x", scheduler.CommandNone),
	)

	It("should list every binding in the help", func() {
		Expect(keys.Help()).To(Equal(
			"[i] interrupt  [e] error  [p] pause  [c] continue"))
	})
})

var _ = Describe("InputReader", func() {
	var (
		mockCtrl  *gomock.Controller
		commander *MockCommander
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		commander = NewMockCommander(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should submit the bound keys in order", func() {
		gomock.InOrder(
			commander.EXPECT().Submit(scheduler.CommandInterrupt).Return(true),
			commander.EXPECT().Submit(scheduler.CommandFail).Return(true),
			commander.EXPECT().Submit(scheduler.CommandTogglePause).Return(true),
			commander.EXPECT().Submit(scheduler.CommandResume).Return(true),
		)

		in := strings.NewReader("i\nx e\n\np c\n")
		r := view.NewInputReader(in, view.DefaultKeyMap())

		Expect(r.Run(context.Background(), commander)).To(Succeed())
	})

	It("should stop when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := view.NewInputReader(strings.NewReader("i\n"), view.DefaultKeyMap())

		Expect(r.Run(ctx, commander)).To(MatchError(context.Canceled))
	})
})

var _ = Describe("TextPresenter", func() {
	var (
		buf       *bytes.Buffer
		presenter *view.TextPresenter
		snapshot  scheduler.Snapshot
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		presenter = view.NewTextPresenter(buf)

		running := process.New(0, 4, process.Operation{
			Left: 6, Operator: process.OpMul, Right: 7})
		running.ArrivalTime = 0
		running.ServiceTime = 1
		running.State = process.StateRunning

		blocked := process.New(1, 3, process.Operation{})
		blocked.ArrivalTime = 0
		blocked.BlockedTime = 2
		blocked.State = process.StateBlocked

		done := process.New(2, 2, process.Operation{
			Left: 1, Operator: process.OpAdd, Right: 2})
		done.Arrive(0)
		done.ServiceTime = 2
		done.Finish(3, process.StatusSuccess)

		snapshot = scheduler.Snapshot{
			Elapsed:        3,
			Window:         3,
			BlockedTimeout: 8,
			Total:          4,
			Running:        &scheduler.ProcessView{Process: running, TimeLeft: 3},
			Blocked: []scheduler.ProcessView{
				{Process: blocked, TimeLeft: 3, BlockedLeft: 6}},
			Finished: []scheduler.ProcessView{{Process: done}},
			Pending: []scheduler.ProcessView{
				{Process: process.New(3, 5, process.Operation{}), TimeLeft: 5}},
		}
	})

	It("should print the counters and queues", func() {
		presenter.Present(snapshot)

		out := buf.String()
		Expect(out).To(ContainSubstring("Elapsed: 3.00"))
		Expect(out).To(ContainSubstring("Pending: 1"))
		Expect(out).To(ContainSubstring("In flight: 2/3"))
		Expect(out).To(ContainSubstring("Finished: 1/4"))
		Expect(out).To(ContainSubstring("6 * 7"))
		Expect(out).To(ContainSubstring("Blocked (1)"))
		Expect(out).NotTo(ContainSubstring("Process control block"))
	})

	It("should mark a paused snapshot", func() {
		snapshot.Paused = true
		presenter.Present(snapshot)

		Expect(buf.String()).To(ContainSubstring("PAUSED"))
	})

	It("should repeat the first message as help", func() {
		presenter.Message("[i] interrupt")
		presenter.Message("paused")
		buf.Reset()

		presenter.Present(snapshot)

		Expect(buf.String()).To(ContainSubstring("[i] interrupt"))
		Expect(buf.String()).NotTo(ContainSubstring("paused"))
	})

	It("should print the PCB and the averages when done", func() {
		presenter.Done(snapshot)

		out := buf.String()
		Expect(out).To(ContainSubstring("Process control block"))
		Expect(out).To(ContainSubstring("pending"))
		Expect(out).To(ContainSubstring("Finished 1 (1 succeeded, 0 failed)"))
		Expect(out).To(ContainSubstring("Average turnaround 3.00"))
	})
})
