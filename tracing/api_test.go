package tracing

import (
	"github.com/sarchlab/procsched/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type sampleDomain struct {
	sim.HookableBase
	name string
}

func (d *sampleDomain) Name() string {
	return d.name
}

type recordingTracer struct {
	started []Task
	ended   []Task
}

func (r *recordingTracer) StartTask(task Task) { r.started = append(r.started, task) }
func (r *recordingTracer) EndTask(task Task)   { r.ended = append(r.ended, task) }

var _ = Describe("API", func() {
	var (
		domain *sampleDomain
		tracer *recordingTracer
	)

	BeforeEach(func() {
		domain = &sampleDomain{name: "Scheduler"}
		tracer = &recordingTracer{}
	})

	It("should skip task reporting without hooks", func() {
		Expect(func() {
			StartTask("", "", domain, "", "", nil)
		}).NotTo(Panic())
	})

	It("should deliver start and end to collected tracers", func() {
		CollectTrace(domain, tracer)

		StartTask("1", "proc-0", domain, "state", "ready", nil)
		EndTask("1", domain)

		Expect(tracer.started).To(HaveLen(1))
		Expect(tracer.started[0].Where).To(Equal("Scheduler"))
		Expect(tracer.started[0].ParentID).To(Equal("proc-0"))
		Expect(tracer.ended).To(HaveLen(1))
		Expect(tracer.ended[0].ID).To(Equal("1"))
	})

	It("should require task fields", func() {
		CollectTrace(domain, tracer)

		Expect(func() {
			StartTask("", "", domain, "state", "ready", nil)
		}).To(Panic())
	})

	It("should refuse the same tracer twice", func() {
		CollectTrace(domain, tracer)

		Expect(func() { CollectTrace(domain, tracer) }).To(Panic())
	})
})
