package events

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/google/uuid"

	"github.com/netmonagent/snmp-poller/internal/config"
)

// Elasticsearch mirrors every closed Journal and its Results as JSON
// documents, adapted from the teacher's outputs.ElasticsearchOutput.
// This is additive telemetry — mon.journal/mon.result remain the sole
// system of record (SPEC_FULL.md §6).
type Elasticsearch struct {
	cfg         config.ElasticsearchConfig
	client      *elasticsearch.Client
	bulkIndexer esutil.BulkIndexer
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	reports chan *Report
}

type esDocument struct {
	DocID     string        `json:"doc_id"`
	JournalID int64         `json:"journal_id"`
	TaskID    int64         `json:"task_id"`
	CronID    int64         `json:"cron_id"`
	Succeeded bool          `json:"succeeded"`
	Dt        time.Time     `json:"dt"`
	Results   []esResultRow `json:"results"`
}

type esResultRow struct {
	NodeID     int64   `json:"node_id"`
	RequestID  int64   `json:"request_id"`
	Key        string  `json:"key"`
	Val        *string `json:"val,omitempty"`
	Err        *string `json:"err,omitempty"`
	DurationMS int64   `json:"duration_ms"`
}

// NewElasticsearch builds the output, or returns (nil, nil) when
// disabled so callers can register it unconditionally.
func NewElasticsearch(cfg config.ElasticsearchConfig, logger *slog.Logger) (*Elasticsearch, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	esCfg := elasticsearch.Config{
		Addresses:     []string{cfg.Endpoint},
		RetryOnStatus: []int{502, 503, 504, 429},
	}
	if cfg.APIKey != "" {
		esCfg.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	if strings.HasPrefix(cfg.Endpoint, "https://") {
		esCfg.Transport = &http.Transport{TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12}}
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("events: new elasticsearch client: %w", err)
	}

	bulkIndexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     client,
		NumWorkers: 2,
		OnError: func(ctx context.Context, err error) {
			logger.Error("elasticsearch bulk indexer error", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("events: new bulk indexer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Elasticsearch{
		cfg:         cfg,
		client:      client,
		bulkIndexer: bulkIndexer,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		reports:     make(chan *Report, 100),
	}

	e.wg.Add(1)
	go e.processReports()

	return e, nil
}

func (e *Elasticsearch) processReports() {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case report := <-e.reports:
			if err := e.indexReport(report); err != nil {
				e.logger.Error("index journal to elasticsearch failed", "error", err, "journal_id", report.Journal.ID)
			}
		}
	}
}

func (e *Elasticsearch) indexReport(report *Report) error {
	doc := esDocument{
		DocID:     uuid.NewString(),
		JournalID: report.Journal.ID,
		TaskID:    report.TaskID,
		CronID:    report.CronID,
		Succeeded: report.Succeeded,
		Dt:        report.Dt,
	}
	for _, r := range report.Results {
		doc.Results = append(doc.Results, esResultRow{
			NodeID: r.NodeID, RequestID: r.RequestID, Key: r.Key,
			Val: r.Val, Err: r.Err, DurationMS: r.DurationMS,
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal journal document: %w", err)
	}

	return e.bulkIndexer.Add(e.ctx, esutil.BulkIndexerItem{
		Action:     "index",
		Index:      e.indexName(report.Dt),
		DocumentID: doc.DocID,
		Body:       bytes.NewReader(data),
		OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			if err != nil {
				e.logger.Error("elasticsearch indexing error", "error", err)
			} else {
				e.logger.Error("elasticsearch indexing failed", "type", res.Error.Type, "reason", res.Error.Reason)
			}
		},
	})
}

// indexName expands the configured %{+yyyy.MM.dd}-style pattern
// against dt, matching the teacher's formatIndexName.
func (e *Elasticsearch) indexName(dt time.Time) string {
	name := e.cfg.IndexPattern
	name = strings.ReplaceAll(name, "%{+yyyy.MM.dd}", dt.Format("2006.01.02"))
	name = strings.ReplaceAll(name, "%{+yyyy.MM}", dt.Format("2006.01"))
	name = strings.ReplaceAll(name, "%{+yyyy}", dt.Format("2006"))
	return name
}

func (e *Elasticsearch) Write(report *Report) error {
	if e == nil {
		return nil
	}
	select {
	case e.reports <- report:
		return nil
	case <-e.ctx.Done():
		return fmt.Errorf("events: elasticsearch output is shutting down")
	default:
		e.logger.Warn("elasticsearch report channel full, dropping report", "journal_id", report.Journal.ID)
		return nil
	}
}

func (e *Elasticsearch) Name() string { return "elasticsearch" }

// Close flushes pending documents and stops the background worker.
func (e *Elasticsearch) Close() error {
	if e == nil {
		return nil
	}
	e.cancel()
	e.wg.Wait()
	return e.bulkIndexer.Close(context.Background())
}
