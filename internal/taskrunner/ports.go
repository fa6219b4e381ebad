package taskrunner

import (
	"context"
	"time"

	"github.com/netmonagent/snmp-poller/internal/events"
	"github.com/netmonagent/snmp-poller/internal/handlers"
	"github.com/netmonagent/snmp-poller/internal/model"
)

// Store is the subset of internal/store the Task Runner drives
// directly. Domain upserts happen inside handlers, against their own
// narrower store ports.
type Store interface {
	NodesInGroup(ctx context.Context, nodeGroupID int64) ([]model.Node, error)
	RequestsInGroup(ctx context.Context, requestGroupID int64) ([]model.Request, error)
	OpenJournal(ctx context.Context, taskID int64) (int64, error)
	CloseJournal(ctx context.Context, journalID int64) error
	InsertResult(ctx context.Context, r model.Result) (int64, error)
	UpdateResult(ctx context.Context, resultID int64, val *string, durationMS int64, errText *string) error
	BatchInsertResults(ctx context.Context, rows []model.Result) error
	MarkRunning(ctx context.Context, cronID int64) error
	MarkActive(ctx context.Context, cronID, journalID int64, now time.Time) error
	UpdateNodeLastPolled(ctx context.Context, nodeID int64) error
}

// SNMPClient is the per-node transport the Task Runner issues GET and
// WALK calls against.
type SNMPClient interface {
	Get(ctx context.Context, oid string) (string, error)
	Walk(ctx context.Context, baseOid string) ([]model.Binding, error)
	Close() error
}

// ClientFactory opens an SNMPClient for one node. Implementations
// typically close over snmpclient.New.
type ClientFactory func(node model.Node) (SNMPClient, error)

// HandlerFactory mirrors handlers.Factory's Create method.
type HandlerFactory interface {
	Create(handlerID int64) (handlers.Handler, error)
}

// EventDispatcher mirrors events.Dispatcher's Dispatch method — the
// Task Runner reports every closed journal as an ambient telemetry
// event, independent of the relational system of record.
type EventDispatcher interface {
	Dispatch(report *events.Report)
}

// HealthRecorder mirrors health.Server's RecordTaskRun method.
type HealthRecorder interface {
	RecordTaskRun(success bool)
}
