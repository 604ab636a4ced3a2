// Package monitoring exposes one interactive simulation session over
// HTTP. The handlers relay the session command protocol and add
// inspection endpoints for the hosting process itself; no scheduling
// logic lives here.
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
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/schedlab/schedsim/policy"
	"github.com/schedlab/schedsim/session"
	"github.com/schedlab/schedsim/sim"
)

// Monitor serves one session.Controller over HTTP.
type Monitor struct {
	controller *session.Controller
	portNumber int

	pendingLock sync.Mutex
	pending     []*session.StepResult
}

// NewMonitor creates a Monitor around a session controller.
func NewMonitor(c *session.Controller) *Monitor {
	return &Monitor{controller: c}
}

// WithPortNumber sets the port number of the server. Ports below 1000
// are rejected and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// StartServer starts serving in the background and returns the bound
// address.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	addr := fmt.Sprintf("localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr,
		"Monitoring simulation with http://%s\n", addr)

	go func() {
		dieOnErr(http.Serve(listener, m.Router()))
	}()

	return addr, nil
}

// Router returns the configured router without starting a listener.
// Tests serve it through httptest.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/init", m.initSession).Methods(http.MethodPost)
	r.HandleFunc("/api/step", m.step).Methods(http.MethodPost)
	r.HandleFunc("/api/run", m.run).Methods(http.MethodPost)
	r.HandleFunc("/api/pause", m.pause).Methods(http.MethodPost)
	r.HandleFunc("/api/reset", m.reset).Methods(http.MethodPost)
	r.HandleFunc("/api/poll", m.poll)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/policies", m.listPolicies)
	r.HandleFunc("/api/samples", m.listSamples)
	r.HandleFunc("/api/state", m.liveState)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

type initRequest struct {
	Processes []sim.ProcessSpec `json:"processes"`
	Policy    string            `json:"policy"`
	Config    sim.Config        `json:"config"`
}

type initResponse struct {
	Type         string `json:"type"`
	SessionID    string `json:"session_id"`
	ProcessCount int    `json:"process_count"`
}

func (m *Monitor) initSession(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, sim.NewValidationError("bad request body: %v", err))
		return
	}

	count, err := m.controller.Init(req.Processes, req.Policy, req.Config)
	if err != nil {
		writeError(w, err)
		return
	}

	m.clearPending()

	writeJSON(w, initResponse{
		Type:         "initialized",
		SessionID:    m.controller.ID(),
		ProcessCount: count,
	})
}

func (m *Monitor) step(w http.ResponseWriter, _ *http.Request) {
	res, err := m.controller.Step()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, res)
}

type runRequest struct {
	Speed float64 `json:"speed"`
}

func (m *Monitor) run(w http.ResponseWriter, r *http.Request) {
	req := runRequest{Speed: 1}
	if r.Body != nil {
		// An empty body keeps the default speed.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	err := m.controller.Run(req.Speed, func(res *session.StepResult) {
		m.pendingLock.Lock()
		m.pending = append(m.pending, res)
		m.pendingLock.Unlock()
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]string{"type": "running"})
}

// poll drains the step results accumulated by an auto-run since the last
// poll.
func (m *Monitor) poll(w http.ResponseWriter, _ *http.Request) {
	m.pendingLock.Lock()
	results := m.pending
	m.pending = nil
	m.pendingLock.Unlock()

	if results == nil {
		results = []*session.StepResult{}
	}

	writeJSON(w, results)
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	if err := m.controller.Pause(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]string{"type": "paused"})
}

func (m *Monitor) reset(w http.ResponseWriter, _ *http.Request) {
	if err := m.controller.Reset(); err != nil {
		writeError(w, err)
		return
	}

	m.clearPending()

	writeJSON(w, map[string]string{"type": "reset"})
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%d}", m.controller.Now())
}

type policyInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (m *Monitor) listPolicies(w http.ResponseWriter, _ *http.Request) {
	cfg := sim.Config{TimeSlice: 2}.WithDefaults()

	infos := make([]policyInfo, 0, len(policy.IDs()))
	for _, id := range policy.IDs() {
		infos = append(infos, policyInfo{ID: id, Name: policy.Name(id, cfg)})
	}

	writeJSON(w, infos)
}

func (m *Monitor) listSamples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, SampleSets())
}

func (m *Monitor) liveState(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.controller)
	serializer.SetMaxDepth(2)

	dieOnErr(serializer.Serialize(w))
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func (m *Monitor) clearPending() {
	m.pendingLock.Lock()
	m.pending = nil
	m.pendingLock.Unlock()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var vErr *sim.ValidationError
	var cErr *sim.ConfigurationError
	var sErr *session.StateError

	switch {
	case errors.As(err, &vErr), errors.As(err, &cErr):
		status = http.StatusBadRequest
	case errors.As(err, &sErr):
		status = http.StatusConflict
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	data, jsonErr := json.Marshal(map[string]string{"error": err.Error()})
	dieOnErr(jsonErr)

	_, jsonErr = w.Write(data)
	dieOnErr(jsonErr)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
