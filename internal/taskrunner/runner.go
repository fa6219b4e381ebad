// Package taskrunner executes one scheduled task end to end: resolve
// the node and request groups, collect raw SNMP data, dispatch it to
// the configured handler, and close out the journal and cron row
// (SPEC_FULL.md §4.4).
package taskrunner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/netmonagent/snmp-poller/internal/events"
	"github.com/netmonagent/snmp-poller/internal/model"
)

// Runner drives a single due CronEntry's task to completion. A Runner
// is reused across tasks; nothing about it is task-specific state.
// Events and Health are optional (nil-safe) ambient reporting hooks.
type Runner struct {
	Store    Store
	Clients  ClientFactory
	Handlers HandlerFactory
	Logger   *slog.Logger
	Events   EventDispatcher
	Health   HealthRecorder
}

// New builds a Runner over its three required collaborators. Set the
// Events/Health fields afterward to wire in ambient telemetry.
func New(store Store, clients ClientFactory, handlerFactory HandlerFactory, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Store: store, Clients: clients, Handlers: handlerFactory, Logger: logger}
}

type nodeRequestKey struct {
	nodeID    int64
	requestID int64
}

// Run executes tc's task: mark RUNNING, open the journal, collect
// Phase 1 raw SNMP data, dispatch Phase 2 handler processing, record
// last-polled nodes, close the journal, and restore the cron row to
// ACTIVE. A non-nil return means the task failed outright (task-scoped
// or worse); per-request/per-node failures are instead recorded as
// error Result rows and do not make Run itself fail.
func (r *Runner) Run(ctx context.Context, tc model.TaskContext) error {
	log := r.Logger.With("cron_id", tc.Cron.ID, "task_id", tc.Task.ID)
	startedAt := time.Now()

	if err := r.Store.MarkRunning(ctx, tc.Cron.ID); err != nil {
		log.Error("mark cron running failed", "error", err)
		return fmt.Errorf("taskrunner: mark running: %w", err)
	}

	journalID, err := r.Store.OpenJournal(ctx, tc.Task.ID)
	if err != nil {
		log.Error("open journal failed", "error", err)
		r.restoreActive(ctx, log, tc.Cron.ID, 0)
		return fmt.Errorf("taskrunner: open journal: %w", err)
	}
	log = log.With("journal_id", journalID)

	nodes, err := r.Store.NodesInGroup(ctx, tc.NodeGroupID)
	if err != nil {
		log.Error("load nodes failed", "error", err)
		r.finish(ctx, log, tc, journalID, startedAt, nil, false)
		return fmt.Errorf("taskrunner: load nodes: %w", err)
	}
	requests, err := r.Store.RequestsInGroup(ctx, tc.RequestGroupID)
	if err != nil {
		log.Error("load requests failed", "error", err)
		r.finish(ctx, log, tc, journalID, startedAt, nil, false)
		return fmt.Errorf("taskrunner: load requests: %w", err)
	}
	if len(nodes) == 0 || len(requests) == 0 {
		log.Error("task resolved no nodes or requests", "nodes", len(nodes), "requests", len(requests))
		r.finish(ctx, log, tc, journalID, startedAt, nil, false)
		return fmt.Errorf("taskrunner: task %d resolved no nodes or requests", tc.Task.ID)
	}

	rawByNode, rawByNodeRequest, succeeded := r.collectPhase1(ctx, log, journalID, nodes, requests)
	processed := r.dispatchPhase2(ctx, log, tc.HandlerID, journalID, nodes, requests, rawByNode, rawByNodeRequest)

	if len(processed) > 0 {
		if err := r.Store.BatchInsertResults(ctx, processed); err != nil {
			log.Error("batch insert processed results failed", "error", err)
		}
	}

	var allResults []model.Result
	for _, rows := range rawByNode {
		allResults = append(allResults, rows...)
	}
	allResults = append(allResults, processed...)

	for _, node := range nodes {
		if !succeeded[node.ID] {
			continue
		}
		if err := r.Store.UpdateNodeLastPolled(ctx, node.ID); err != nil {
			log.Warn("update node last polled failed", "node_id", node.ID, "error", err)
		}
	}

	r.finish(ctx, log, tc, journalID, startedAt, allResults, true)
	return nil
}

// collectPhase1 issues one SNMP GET or WALK per (node, request) pair.
// Each call is preceded by a placeholder Result row and followed by a
// guarded update, so a crash mid-request still leaves a trace that the
// attempt was made (SPEC_FULL.md §4.3, design notes).
func (r *Runner) collectPhase1(
	ctx context.Context,
	log *slog.Logger,
	journalID int64,
	nodes []model.Node,
	requests []model.Request,
) (map[int64][]model.Result, map[nodeRequestKey][]model.Result, map[int64]bool) {
	rawByNode := make(map[int64][]model.Result)
	rawByNodeRequest := make(map[nodeRequestKey][]model.Result)
	succeeded := make(map[int64]bool)

	for _, node := range nodes {
		client, err := r.Clients(node)
		if err != nil {
			log.Warn("snmp connect failed", "node_id", node.ID, "error", err)
			for _, req := range requests {
				res := r.recordFailure(ctx, log, node, req, journalID, err)
				rawByNode[node.ID] = append(rawByNode[node.ID], res)
				rawByNodeRequest[nodeRequestKey{node.ID, req.ID}] = append(rawByNodeRequest[nodeRequestKey{node.ID, req.ID}], res)
			}
			continue
		}

		for _, req := range requests {
			res := r.collectOne(ctx, log, client, node, req, journalID)
			if res.Err == nil {
				succeeded[node.ID] = true
			}
			rawByNode[node.ID] = append(rawByNode[node.ID], res)
			rawByNodeRequest[nodeRequestKey{node.ID, req.ID}] = append(rawByNodeRequest[nodeRequestKey{node.ID, req.ID}], res)
		}

		if err := client.Close(); err != nil {
			log.Warn("snmp client close failed", "node_id", node.ID, "error", err)
		}
	}

	return rawByNode, rawByNodeRequest, succeeded
}

// collectOne performs the placeholder-insert / SNMP-call /
// guarded-update sequence for a single (node, request) pair.
func (r *Runner) collectOne(ctx context.Context, log *slog.Logger, client SNMPClient, node model.Node, req model.Request, journalID int64) model.Result {
	placeholder := model.Result{NodeID: node.ID, RequestID: req.ID, JournalID: journalID}
	resultID, err := r.Store.InsertResult(ctx, placeholder)
	if err != nil {
		log.Warn("insert result placeholder failed", "node_id", node.ID, "request", req.Name, "error", err)
	}

	start := time.Now()
	var val string
	var callErr error
	if isWalkOID(req.OID) {
		bindings, werr := client.Walk(ctx, req.OID)
		if werr != nil {
			callErr = werr
		} else {
			val, _ = encodeBindings(bindings)
		}
	} else {
		v, gerr := client.Get(ctx, req.OID)
		if gerr != nil {
			callErr = gerr
		} else {
			val, _ = encodeBindings([]model.Binding{{OID: req.OID, Value: v}})
		}
	}
	duration := time.Since(start).Milliseconds()

	var res model.Result
	if callErr != nil {
		msg := callErr.Error()
		res = model.Result{NodeID: node.ID, RequestID: req.ID, JournalID: journalID, Key: "error_" + req.Name, Err: &msg, DurationMS: duration, Dt: time.Now()}
		log.Warn("snmp request failed", "node_id", node.ID, "request", req.Name, "error", callErr)
		if resultID != 0 {
			if err := r.Store.UpdateResult(ctx, resultID, nil, duration, &msg); err != nil {
				log.Warn("update result failed", "result_id", resultID, "error", err)
			}
		}
		return res
	}

	v := val
	res = model.Result{NodeID: node.ID, RequestID: req.ID, JournalID: journalID, Key: "raw_" + req.Name, Val: &v, DurationMS: duration, Dt: time.Now()}
	if resultID != 0 {
		if err := r.Store.UpdateResult(ctx, resultID, &v, duration, nil); err != nil {
			log.Warn("update result failed", "result_id", resultID, "error", err)
		}
	}
	return res
}

// recordFailure builds an error_ Result for a request that never got
// issued because the node itself could not be reached.
func (r *Runner) recordFailure(ctx context.Context, log *slog.Logger, node model.Node, req model.Request, journalID int64, cause error) model.Result {
	placeholder := model.Result{NodeID: node.ID, RequestID: req.ID, JournalID: journalID}
	resultID, err := r.Store.InsertResult(ctx, placeholder)
	if err != nil {
		log.Warn("insert result placeholder failed", "node_id", node.ID, "request", req.Name, "error", err)
	}
	msg := cause.Error()
	if resultID != 0 {
		if err := r.Store.UpdateResult(ctx, resultID, nil, 0, &msg); err != nil {
			log.Warn("update result failed", "result_id", resultID, "error", err)
		}
	}
	return model.Result{NodeID: node.ID, RequestID: req.ID, JournalID: journalID, Key: "error_" + req.Name, Err: &msg, Dt: time.Now()}
}

// dispatchPhase2 instantiates the task's handler (if any) and calls
// ProcessRaw once per group. The combined-MAC legacy handler (id 2)
// receives every raw row captured for a node together; every other
// handler is invoked per (node, request) group (SPEC_FULL.md §4.4).
func (r *Runner) dispatchPhase2(
	ctx context.Context,
	log *slog.Logger,
	handlerID int64,
	journalID int64,
	nodes []model.Node,
	requests []model.Request,
	rawByNode map[int64][]model.Result,
	rawByNodeRequest map[nodeRequestKey][]model.Result,
) []model.Result {
	if handlerID <= 1 {
		return nil
	}

	handler, err := r.Handlers.Create(handlerID)
	if err != nil {
		log.Error("unknown handler id", "handler_id", handlerID, "error", err)
		return nil
	}

	var processed []model.Result
	if handlerID == 2 {
		for _, node := range nodes {
			group := rawByNode[node.ID]
			if len(group) == 0 {
				continue
			}
			processed = append(processed, rekeyProcessed(handler.ProcessRaw(ctx, node, model.Request{}, journalID, group)))
		}
		return processed
	}

	for _, node := range nodes {
		for _, req := range requests {
			group := rawByNodeRequest[nodeRequestKey{node.ID, req.ID}]
			if len(group) == 0 {
				continue
			}
			processed = append(processed, rekeyProcessed(handler.ProcessRaw(ctx, node, req, journalID, group)))
		}
	}
	return processed
}

// rekeyProcessed prefixes a handler's returned Result.Key with
// "processed_" before batch-insert, the stable external key a
// downstream consumer filters on (SPEC_FULL.md §4.4 step 4, §6).
func rekeyProcessed(res model.Result) model.Result {
	res.Key = "processed_" + res.Key
	return res
}

// finish closes the journal, restores the cron row to ACTIVE, and
// reports the run to the optional ambient Events/Health hooks. Both
// store steps happen unconditionally, including on the task-scoped
// failure paths above (SPEC_FULL.md §7: "the task's journal is closed,
// cron returns to ACTIVE").
func (r *Runner) finish(ctx context.Context, log *slog.Logger, tc model.TaskContext, journalID int64, startedAt time.Time, results []model.Result, succeeded bool) {
	if err := r.Store.CloseJournal(ctx, journalID); err != nil {
		log.Error("close journal failed", "error", err)
	}
	r.restoreActive(ctx, log, tc.Cron.ID, journalID)

	if r.Health != nil {
		r.Health.RecordTaskRun(succeeded)
	}
	if r.Events != nil {
		endedAt := time.Now()
		r.Events.Dispatch(&events.Report{
			Journal:   model.Journal{ID: journalID, TaskID: tc.Task.ID, StartDt: startedAt, EndDt: &endedAt},
			TaskID:    tc.Task.ID,
			CronID:    tc.Cron.ID,
			Results:   results,
			Succeeded: succeeded,
			Dt:        endedAt,
		})
	}
}

func (r *Runner) restoreActive(ctx context.Context, log *slog.Logger, cronID, journalID int64) {
	if err := r.Store.MarkActive(ctx, cronID, journalID, time.Now()); err != nil {
		log.Error("restore cron active failed", "error", err)
	}
}
