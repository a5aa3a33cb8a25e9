// Package monitoring turns a running simulation into an HTTP server that
// publishes snapshots and accepts commands.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/sarchlab/procsched/monitoring/web"
	"github.com/sarchlab/procsched/scheduler"
	"github.com/sarchlab/procsched/sim"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

const maxMessages = 32

// A Commander accepts the commands posted to the monitor.
type Commander interface {
	Submit(cmd scheduler.Command) bool
}

// Monitor publishes the latest snapshot of a simulation and forwards commands
// to it. It is a presenter of the runner, so the snapshot it serves is always
// one the runner published.
type Monitor struct {
	portNumber      int
	commander       Commander
	profileDuration time.Duration
	idGenerator     sim.IDGenerator

	lock     sync.RWMutex
	snapshot scheduler.Snapshot
	done     bool
	messages []string

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
}

// MinPortNumber is the lowest port the monitor listens on. Lower port numbers
// are replaced by a random port.
const MinPortNumber = 1000

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		idGenerator:     sim.NewXIDGenerator(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < MinPortNumber {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterCommander sets where posted commands go.
func (m *Monitor) RegisterCommander(c Commander) {
	m.commander = c
}

// Present stores the snapshot and updates the progress bars.
func (m *Monitor) Present(s scheduler.Snapshot) {
	m.lock.Lock()
	m.snapshot = s
	m.lock.Unlock()

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	for _, b := range m.progressBars {
		b.Set(uint64(len(s.Finished)), uint64(s.InFlight()))
	}
}

// Message keeps the most recent notices of the runner.
func (m *Monitor) Message(msg string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.messages = append(m.messages, msg)
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// Done stores the final snapshot.
func (m *Monitor) Done(s scheduler.Snapshot) {
	m.Present(s)

	m.lock.Lock()
	m.done = true
	m.lock.Unlock()
}

// Snapshot returns the last snapshot presented.
func (m *Monitor) Snapshot() scheduler.Snapshot {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.snapshot
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.idGenerator.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the router that serves the API and the web page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/snapshot", m.getSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/now", m.now).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", m.stats).Methods(http.MethodGet)
	r.HandleFunc("/api/messages", m.listMessages).Methods(http.MethodGet)
	r.HandleFunc("/api/process/{id}", m.processDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/engine", m.engineDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/field/{json}", m.listFieldValue).Methods(http.MethodGet)
	r.HandleFunc("/api/pause", m.command(scheduler.CommandTogglePause)).
		Methods(http.MethodPost)
	r.HandleFunc("/api/continue", m.command(scheduler.CommandResume)).
		Methods(http.MethodPost)
	r.HandleFunc("/api/interrupt", m.command(scheduler.CommandInterrupt)).
		Methods(http.MethodPost)
	r.HandleFunc("/api/fail", m.command(scheduler.CommandFail)).
		Methods(http.MethodPost)
	r.HandleFunc("/api/progress", m.listProgressBars).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its address.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", m.listenAddress())
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	return url, nil
}

func (m *Monitor) listenAddress() string {
	if m.portNumber < MinPortNumber {
		return ":0"
	}

	return ":" + strconv.Itoa(m.portNumber)
}

// Close stops the web server.
func (m *Monitor) Close() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

type snapshotRsp struct {
	scheduler.Snapshot
	Done bool `json:"done"`
}

func (m *Monitor) getSnapshot(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	rsp := snapshotRsp{Snapshot: m.snapshot, Done: m.done}
	m.lock.RUnlock()

	writeJSON(w, rsp)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	s := m.Snapshot()
	fmt.Fprintf(w, "{\"now\":%.10f,\"paused\":%t}", float64(s.Elapsed), s.Paused)
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.Snapshot().Stats())
}

func (m *Monitor) listMessages(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	messages := append([]string{}, m.messages...)
	m.lock.RUnlock()

	writeJSON(w, messages)
}

func (m *Monitor) command(cmd scheduler.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if m.commander == nil || !m.commander.Submit(cmd) {
			http.Error(w, "command queue unavailable",
				http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func (m *Monitor) processDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid process id", http.StatusBadRequest)
		return
	}

	p, found := m.Snapshot().Find(id)
	if !found {
		http.Error(w, "Process not found", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(p)
	serializer.SetMaxDepth(2)
	err = serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) engineDetails(w http.ResponseWriter, _ *http.Request) {
	s := m.Snapshot()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(s)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := m.Snapshot()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(s)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
