package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/scheduler"
)

type fakeCommander struct {
	accept   bool
	received []scheduler.Command
}

func (c *fakeCommander) Submit(cmd scheduler.Command) bool {
	if !c.accept {
		return false
	}

	c.received = append(c.received, cmd)

	return true
}

func sampleSnapshot() scheduler.Snapshot {
	p0 := process.New(0, 4, process.Operation{})
	p0.ArrivalTime = 0
	p0.ServiceTime = 1
	p0.State = process.StateRunning

	p1 := process.New(1, 3, process.Operation{})
	p1.State = process.StatePending

	return scheduler.Snapshot{
		Elapsed: 1.5,
		Window:  1,
		Total:   2,
		Running: &scheduler.ProcessView{Process: p0, TimeLeft: 3},
		Pending: []scheduler.ProcessView{{Process: p1, TimeLeft: 3}},
	}
}

var _ = Describe("Monitor", func() {
	var (
		m         *Monitor
		commander *fakeCommander
		handler   http.Handler
	)

	serve := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		handler.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		m = NewMonitor()
		commander = &fakeCommander{accept: true}
		m.RegisterCommander(commander)
		handler = m.Handler()
	})

	It("should serve the last snapshot", func() {
		m.Present(sampleSnapshot())

		rec := serve(http.MethodGet, "/api/snapshot")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp snapshotRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Running.ID).To(Equal(0))
		Expect(rsp.Pending).To(HaveLen(1))
		Expect(rsp.Done).To(BeFalse())
	})

	It("should mark the snapshot done", func() {
		m.Done(sampleSnapshot())

		var rsp snapshotRsp
		rec := serve(http.MethodGet, "/api/snapshot")
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Done).To(BeTrue())
	})

	It("should report the elapsed time", func() {
		m.Present(sampleSnapshot())

		rec := serve(http.MethodGet, "/api/now")

		Expect(rec.Body.String()).To(Equal(`{"now":1.5000000000,"paused":false}`))
	})

	It("should forward commands", func() {
		Expect(serve(http.MethodPost, "/api/interrupt").Code).
			To(Equal(http.StatusAccepted))
		Expect(serve(http.MethodPost, "/api/fail").Code).
			To(Equal(http.StatusAccepted))
		Expect(serve(http.MethodPost, "/api/pause").Code).
			To(Equal(http.StatusAccepted))
		Expect(serve(http.MethodPost, "/api/continue").Code).
			To(Equal(http.StatusAccepted))

		Expect(commander.received).To(Equal([]scheduler.Command{
			scheduler.CommandInterrupt,
			scheduler.CommandFail,
			scheduler.CommandTogglePause,
			scheduler.CommandResume,
		}))
	})

	It("should answer 503 when the queue is full", func() {
		commander.accept = false

		Expect(serve(http.MethodPost, "/api/interrupt").Code).
			To(Equal(http.StatusServiceUnavailable))
	})

	It("should not accept commands by GET", func() {
		Expect(serve(http.MethodGet, "/api/interrupt").Code).
			NotTo(Equal(http.StatusAccepted))
		Expect(commander.received).To(BeEmpty())
	})

	It("should serve a process", func() {
		m.Present(sampleSnapshot())

		Expect(serve(http.MethodGet, "/api/process/1").Code).
			To(Equal(http.StatusOK))
		Expect(serve(http.MethodGet, "/api/process/9").Code).
			To(Equal(http.StatusNotFound))
		Expect(serve(http.MethodGet, "/api/process/x").Code).
			To(Equal(http.StatusBadRequest))
	})

	It("should serve the snapshot fields", func() {
		m.Present(sampleSnapshot())

		Expect(serve(http.MethodGet, "/api/engine").Code).
			To(Equal(http.StatusOK))

		path := "/api/field/" + url.PathEscape(`{"field_name":"Window"}`)
		Expect(serve(http.MethodGet, path).Code).To(Equal(http.StatusOK))
	})

	It("should keep the latest messages", func() {
		for i := 0; i < maxMessages+5; i++ {
			m.Message("paused")
		}
		m.Message("resumed")

		var messages []string
		rec := serve(http.MethodGet, "/api/messages")
		Expect(json.Unmarshal(rec.Body.Bytes(), &messages)).To(Succeed())
		Expect(messages).To(HaveLen(maxMessages))
		Expect(messages[maxMessages-1]).To(Equal("resumed"))
	})

	It("should track the progress", func() {
		bar := m.CreateProgressBar("Processes", 2)

		s := sampleSnapshot()
		s.Finished = []scheduler.ProcessView{*s.Running}
		s.Running = nil
		s.Ready = s.Pending
		s.Pending = nil
		m.Present(s)

		Expect(bar.Finished).To(Equal(uint64(1)))
		Expect(bar.InProgress).To(Equal(uint64(1)))

		var bars []map[string]any
		rec := serve(http.MethodGet, "/api/progress")
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("Processes"))

		m.CompleteProgressBar(bar)
		rec = serve(http.MethodGet, "/api/progress")
		Expect(rec.Body.String()).To(Equal("[]"))
	})

	It("should report the resource usage", func() {
		var rsp resourceRsp
		rec := serve(http.MethodGet, "/api/resource")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a profile", func() {
		m.profileDuration = 50 * time.Millisecond

		rec := serve(http.MethodGet, "/api/profile")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
	})

	It("should serve the page", func() {
		rec := serve(http.MethodGet, "/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should start and stop the server", func() {
		url, err := m.StartServer()
		Expect(err).NotTo(HaveOccurred())

		rsp, err := http.Get(url + "/api/now")
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		Expect(m.Close()).To(Succeed())
	})
})

var _ = Describe("Monitor port", func() {
	It("should listen on the lowest allowed port as given", func() {
		m := NewMonitor().WithPortNumber(MinPortNumber)

		Expect(m.listenAddress()).To(Equal(":1000"))
	})

	It("should pick a random port below the lowest allowed one", func() {
		m := NewMonitor().WithPortNumber(MinPortNumber - 1)

		Expect(m.listenAddress()).To(Equal(":0"))
	})

	It("should listen on a free high port", func() {
		l, err := net.Listen("tcp", ":0")
		Expect(err).NotTo(HaveOccurred())
		port := l.Addr().(*net.TCPAddr).Port
		Expect(l.Close()).To(Succeed())

		m := NewMonitor().WithPortNumber(port)
		url, err := m.StartServer()
		Expect(err).NotTo(HaveOccurred())
		defer m.Close()

		Expect(url).To(Equal(fmt.Sprintf("http://localhost:%d", port)))
	})
})
