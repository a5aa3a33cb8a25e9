package process_test

import (
	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Process", func() {
	var p process.Process

	BeforeEach(func() {
		p = process.New(0, 5, process.Operation{
			Left: 7, Operator: process.OpMul, Right: 6,
		})
	})

	It("should start pending and unstamped", func() {
		Expect(p.State).To(Equal(process.StatePending))
		Expect(p.HasArrived()).To(BeFalse())
		Expect(p.TerminationTime).To(Equal(process.Unset))
		Expect(p.ServiceTime).To(BeZero())
		Expect(p.BlockedTime).To(BeZero())
		Expect(p.TimeLeft()).To(Equal(sim.VTimeInSec(5)))
	})

	It("should stamp arrival only once", func() {
		Expect(p.Arrive(2)).To(BeTrue())
		Expect(p.Arrive(4)).To(BeFalse())
		Expect(p.ArrivalTime).To(Equal(sim.VTimeInSec(2)))
	})

	It("should never serve beyond the estimate", func() {
		Expect(p.Serve(3)).To(BeFalse())
		Expect(p.Serve(3)).To(BeTrue())
		Expect(p.ServiceTime).To(Equal(sim.VTimeInSec(5)))
		Expect(p.TimeLeft()).To(BeZero())
	})

	It("should reset blocked time when blocked", func() {
		Expect(p.Wait(2, 8)).To(BeFalse())
		p.Block()

		Expect(p.BlockedTime).To(BeZero())
		Expect(p.State).To(Equal(process.StateBlocked))
		Expect(p.Wait(8, 8)).To(BeTrue())
	})

	It("should freeze statistics when finishing successfully", func() {
		p.Arrive(1)
		p.Serve(5)
		p.Finish(10, process.StatusSuccess)

		Expect(p.State).To(Equal(process.StateFinished))
		Expect(p.TurnaroundTime).To(Equal(sim.VTimeInSec(9)))
		Expect(p.WaitingTime).To(Equal(sim.VTimeInSec(4)))
		Expect(p.Result).To(Equal("42"))
	})

	It("should record an error result on failure", func() {
		p.Arrive(0)
		p.Finish(3, process.StatusFailure)

		Expect(p.Status).To(Equal(process.StatusFailure))
		Expect(p.ServiceTime).To(BeZero())
		Expect(p.WaitingTime).To(Equal(sim.VTimeInSec(3)))
		Expect(p.Result).To(Equal(process.ResultError))
	})

	It("should panic when finished twice", func() {
		p.Arrive(0)
		p.Finish(1, process.StatusFailure)

		Expect(func() { p.Finish(2, process.StatusSuccess) }).To(Panic())
	})

	It("should panic when finishing before arriving", func() {
		Expect(func() { p.Finish(2, process.StatusSuccess) }).To(Panic())
	})
})

var _ = Describe("Operation", func() {
	DescribeTable("evaluate",
		func(op process.Operation, expected int) {
			v, err := op.Evaluate()

			Expect(err).NotTo(HaveOccurred())
			Expect(int(v)).To(Equal(expected))
		},
		Entry("add", process.Operation{Left: 2, Operator: '+', Right: 3}, 5),
		Entry("sub", process.Operation{Left: 2, Operator: '-', Right: 3}, -1),
		Entry("mul", process.Operation{Left: 2, Operator: '*', Right: 3}, 6),
		Entry("div", process.Operation{Left: 7, Operator: '/', Right: 2}, 3),
		Entry("mod", process.Operation{Left: 7, Operator: '%', Right: 2}, 1),
	)

	It("should reject division by zero", func() {
		_, err := process.Operation{Left: 1, Operator: '/'}.Evaluate()

		Expect(err).To(MatchError(process.ErrDivisionByZero))
	})

	It("should format", func() {
		op := process.Operation{Left: 1, Operator: '+', Right: 2}

		Expect(op.String()).To(Equal("1 + 2"))
	})
})

var _ = Describe("Generators", func() {
	It("should draw estimates in range", func() {
		g, err := process.NewRandomGenerator(7, 6, 16)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 200; i++ {
			p := g.Generate(i)

			Expect(p.ID).To(Equal(i))
			Expect(p.EstimatedTime).To(BeNumerically(">=", 6))
			Expect(p.EstimatedTime).To(BeNumerically("<=", 16))

			_, err := p.Operation.Evaluate()
			Expect(err).NotTo(HaveOccurred())
		}
	})

	It("should be deterministic for a seed", func() {
		g1, _ := process.NewRandomGenerator(42, 1, 100)
		g2, _ := process.NewRandomGenerator(42, 1, 100)

		for i := 0; i < 10; i++ {
			Expect(g1.Generate(i)).To(Equal(g2.Generate(i)))
		}
	})

	It("should reject an inverted range", func() {
		_, err := process.NewRandomGenerator(1, 5, 4)

		Expect(err).To(HaveOccurred())
	})

	It("should cycle a sequence", func() {
		g := process.NewSequenceGenerator(3, 1)

		Expect(g.Generate(0).EstimatedTime).To(Equal(sim.VTimeInSec(3)))
		Expect(g.Generate(1).EstimatedTime).To(Equal(sim.VTimeInSec(1)))
		Expect(g.Generate(2).EstimatedTime).To(Equal(sim.VTimeInSec(3)))
	})
})
