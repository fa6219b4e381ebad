package taskrunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/netmonagent/snmp-poller/internal/events"
	"github.com/netmonagent/snmp-poller/internal/handlers"
	"github.com/netmonagent/snmp-poller/internal/model"
)

// fakeStore is an in-memory Store good enough to drive Run end to end.
type fakeStore struct {
	mu sync.Mutex

	nodes    []model.Node
	requests []model.Request

	nodesErr    error
	requestsErr error

	nextResultID int64
	results      map[int64]model.Result
	batches      [][]model.Result

	journalClosed  bool
	cronStatus     string
	cronJournalID  int64
	lastPolled     map[int64]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		results:    make(map[int64]model.Result),
		lastPolled: make(map[int64]int),
		cronStatus: "RUNNING",
	}
}

func (s *fakeStore) NodesInGroup(ctx context.Context, nodeGroupID int64) ([]model.Node, error) {
	return s.nodes, s.nodesErr
}

func (s *fakeStore) RequestsInGroup(ctx context.Context, requestGroupID int64) ([]model.Request, error) {
	return s.requests, s.requestsErr
}

func (s *fakeStore) OpenJournal(ctx context.Context, taskID int64) (int64, error) {
	return 42, nil
}

func (s *fakeStore) CloseJournal(ctx context.Context, journalID int64) error {
	s.journalClosed = true
	return nil
}

func (s *fakeStore) InsertResult(ctx context.Context, r model.Result) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextResultID++
	id := s.nextResultID
	s.results[id] = r
	return id, nil
}

func (s *fakeStore) UpdateResult(ctx context.Context, resultID int64, val *string, durationMS int64, errText *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.results[resultID]
	if !ok {
		return fmt.Errorf("no such result %d", resultID)
	}
	if row.Val != nil || row.Err != nil {
		return nil
	}
	row.Val = val
	row.Err = errText
	row.DurationMS = durationMS
	s.results[resultID] = row
	return nil
}

func (s *fakeStore) BatchInsertResults(ctx context.Context, rows []model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, rows)
	return nil
}

func (s *fakeStore) MarkRunning(ctx context.Context, cronID int64) error {
	s.cronStatus = "RUNNING"
	return nil
}

func (s *fakeStore) MarkActive(ctx context.Context, cronID, journalID int64, now time.Time) error {
	s.cronStatus = "ACTIVE"
	s.cronJournalID = journalID
	return nil
}

func (s *fakeStore) UpdateNodeLastPolled(ctx context.Context, nodeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPolled[int(nodeID)]++
	return nil
}

// fakeClient answers Get/Walk per-node based on a script the test
// configures; nodeFail nodes refuse to Connect entirely.
type fakeClient struct {
	node      model.Node
	walkFails map[string]bool
	closed    bool
}

func (c *fakeClient) Get(ctx context.Context, oid string) (string, error) {
	return fmt.Sprintf("val-%s-%d", oid, c.node.ID), nil
}

func (c *fakeClient) Walk(ctx context.Context, baseOid string) ([]model.Binding, error) {
	if c.walkFails[baseOid] {
		return nil, errors.New("request timeout")
	}
	return []model.Binding{{OID: baseOid + ".1", Value: "1"}}, nil
}

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

// fakeHandler records every ProcessRaw invocation it receives.
type fakeHandler struct {
	calls []struct {
		node model.Node
		req  model.Request
		raw  []model.Result
	}
}

func (h *fakeHandler) Name() string { return "fake" }

func (h *fakeHandler) ProcessRaw(ctx context.Context, node model.Node, request model.Request, journalID int64, raw []model.Result) model.Result {
	h.calls = append(h.calls, struct {
		node model.Node
		req  model.Request
		raw  []model.Result
	}{node, request, raw})
	v := "ok"
	return model.Result{NodeID: node.ID, RequestID: request.ID, JournalID: journalID, Key: "test", Val: &v}
}

type fakeHandlerFactory struct {
	handler handlers.Handler
	err     error
}

func (f *fakeHandlerFactory) Create(handlerID int64) (handlers.Handler, error) {
	return f.handler, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func baseTaskContext() model.TaskContext {
	return model.TaskContext{
		Cron:           model.CronEntry{ID: 1, TaskID: 1},
		Task:           model.Task{ID: 1},
		NodeGroupID:    1,
		RequestGroupID: 1,
		HandlerID:      4,
	}
}

func TestRun_HappyPath(t *testing.T) {
	store := newFakeStore()
	store.nodes = []model.Node{{ID: 1, Name: "sw1"}, {ID: 2, Name: "sw2"}}
	store.requests = []model.Request{{ID: 10, Name: "ifDescr", OID: "1.3.6.1.2.1.2.2.1.2"}}

	clients := ClientFactory(func(node model.Node) (SNMPClient, error) {
		return &fakeClient{node: node}, nil
	})

	fh := &fakeHandler{}
	hf := &fakeHandlerFactory{handler: fh}

	r := New(store, clients, hf, discardLogger())
	if err := r.Run(context.Background(), baseTaskContext()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !store.journalClosed {
		t.Error("journal was not closed")
	}
	if store.cronStatus != "ACTIVE" {
		t.Errorf("cron status = %q, want ACTIVE", store.cronStatus)
	}
	if len(store.lastPolled) != 2 {
		t.Errorf("last-polled nodes = %d, want 2", len(store.lastPolled))
	}
	if len(fh.calls) != 2 {
		t.Errorf("handler invoked %d times, want 2 (one per node)", len(fh.calls))
	}
	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Errorf("expected one processed-results batch of 2 rows, got %v", store.batches)
	}
	for _, row := range store.batches[0] {
		if row.Key != "processed_test" {
			t.Errorf("processed result key = %q, want processed_test", row.Key)
		}
		if row.RequestID != 10 {
			t.Errorf("processed result request_id = %d, want 10", row.RequestID)
		}
	}
}

func TestRun_PartialNodeFailure(t *testing.T) {
	store := newFakeStore()
	store.nodes = []model.Node{
		{ID: 1, Name: "sw1"}, {ID: 2, Name: "sw2"}, {ID: 3, Name: "sw3"},
		{ID: 4, Name: "sw4"}, {ID: 5, Name: "sw5"},
	}
	store.requests = []model.Request{{ID: 10, Name: "ifDescr", OID: "1.3.6.1.2.1.2.2.1.2"}}

	clients := ClientFactory(func(node model.Node) (SNMPClient, error) {
		c := &fakeClient{node: node, walkFails: map[string]bool{}}
		if node.ID == 3 {
			c.walkFails["1.3.6.1.2.1.2.2.1.2"] = true
		}
		return c, nil
	})

	hf := &fakeHandlerFactory{handler: &fakeHandler{}}
	r := New(store, clients, hf, discardLogger())

	tc := baseTaskContext()
	if err := r.Run(context.Background(), tc); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(store.lastPolled) != 4 {
		t.Errorf("last-polled nodes = %d, want 4 (node 3 failed)", len(store.lastPolled))
	}
	if store.cronStatus != "ACTIVE" {
		t.Errorf("cron status = %q, want ACTIVE even after a partial failure", store.cronStatus)
	}

	var sawError bool
	for _, row := range store.results {
		if row.NodeID == 3 && row.Err != nil && row.Key == "error_ifDescr" {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected an error_ifDescr result row for node 3")
	}
}

func TestRun_NoNodesIsTaskScopedFailure(t *testing.T) {
	store := newFakeStore()
	store.requests = []model.Request{{ID: 10, Name: "ifDescr", OID: "1.3.6.1.2.1.2.2.1.2"}}

	clients := ClientFactory(func(node model.Node) (SNMPClient, error) {
		return &fakeClient{node: node}, nil
	})
	hf := &fakeHandlerFactory{handler: &fakeHandler{}}
	r := New(store, clients, hf, discardLogger())

	if err := r.Run(context.Background(), baseTaskContext()); err == nil {
		t.Fatal("expected an error when the node group resolves empty")
	}
	if !store.journalClosed {
		t.Error("journal should still be closed on a task-scoped failure")
	}
	if store.cronStatus != "ACTIVE" {
		t.Errorf("cron status = %q, want ACTIVE even on a task-scoped failure", store.cronStatus)
	}
}

func TestRun_UnknownHandlerSkipsPhase2ButStillCompletes(t *testing.T) {
	store := newFakeStore()
	store.nodes = []model.Node{{ID: 1, Name: "sw1"}}
	store.requests = []model.Request{{ID: 10, Name: "sysName", OID: "1.3.6.1.2.1.1.5.0"}}

	clients := ClientFactory(func(node model.Node) (SNMPClient, error) {
		return &fakeClient{node: node}, nil
	})
	hf := &fakeHandlerFactory{err: errors.New("no such handler")}
	r := New(store, clients, hf, discardLogger())

	tc := baseTaskContext()
	tc.HandlerID = 123
	if err := r.Run(context.Background(), tc); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(store.batches) != 0 {
		t.Errorf("expected no processed batch when the handler id is unknown, got %v", store.batches)
	}
	if !store.journalClosed || store.cronStatus != "ACTIVE" {
		t.Error("task should still complete cleanly when only phase 2 is skipped")
	}
}

type fakeEventDispatcher struct {
	mu      sync.Mutex
	reports []*events.Report
}

func (d *fakeEventDispatcher) Dispatch(report *events.Report) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports = append(d.reports, report)
}

type fakeHealthRecorder struct {
	mu    sync.Mutex
	calls []bool
}

func (h *fakeHealthRecorder) RecordTaskRun(success bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, success)
}

func TestRun_ReportsToEventsAndHealth(t *testing.T) {
	store := newFakeStore()
	store.nodes = []model.Node{{ID: 1, Name: "sw1"}}
	store.requests = []model.Request{{ID: 10, Name: "sysName", OID: "1.3.6.1.2.1.1.5.0"}}

	clients := ClientFactory(func(node model.Node) (SNMPClient, error) {
		return &fakeClient{node: node}, nil
	})
	hf := &fakeHandlerFactory{handler: &fakeHandler{}}
	r := New(store, clients, hf, discardLogger())
	dispatcher := &fakeEventDispatcher{}
	health := &fakeHealthRecorder{}
	r.Events = dispatcher
	r.Health = health

	if err := r.Run(context.Background(), baseTaskContext()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(dispatcher.reports) != 1 {
		t.Fatalf("expected 1 dispatched report, got %d", len(dispatcher.reports))
	}
	if !dispatcher.reports[0].Succeeded {
		t.Error("expected the dispatched report to be marked succeeded")
	}
	if len(health.calls) != 1 || !health.calls[0] {
		t.Errorf("expected one successful health record, got %v", health.calls)
	}
}

func TestRun_RawHandlerSkipsPhase2(t *testing.T) {
	store := newFakeStore()
	store.nodes = []model.Node{{ID: 1, Name: "sw1"}}
	store.requests = []model.Request{{ID: 10, Name: "sysName", OID: "1.3.6.1.2.1.1.5.0"}}

	clients := ClientFactory(func(node model.Node) (SNMPClient, error) {
		return &fakeClient{node: node}, nil
	})
	hf := &fakeHandlerFactory{handler: &fakeHandler{}}
	r := New(store, clients, hf, discardLogger())

	tc := baseTaskContext()
	tc.HandlerID = 1
	if err := r.Run(context.Background(), tc); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(store.batches) != 0 {
		t.Errorf("handler id 1 (raw identity) must not invoke Phase 2, got %v", store.batches)
	}
}
