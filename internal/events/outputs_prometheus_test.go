package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/netmonagent/snmp-poller/internal/config"
	"github.com/netmonagent/snmp-poller/internal/model"
)

func TestPrometheus_Disabled(t *testing.T) {
	p, err := NewPrometheus(config.MetricsConfig{Enabled: false}, http.NewServeMux())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("expected nil output when metrics are disabled")
	}
	if err := p.Write(&Report{}); err != nil {
		t.Errorf("Write on a nil Prometheus output should be a no-op, got %v", err)
	}
}

func TestPrometheus_ExposesCounters(t *testing.T) {
	mux := http.NewServeMux()
	p, err := NewPrometheus(config.MetricsConfig{Enabled: true, Path: "/metrics"}, mux)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now().Add(-2 * time.Second)
	end := start.Add(2 * time.Second)
	report := &Report{
		Journal:   model.Journal{ID: 1, StartDt: start, EndDt: &end},
		Succeeded: true,
		Results: []model.Result{
			{Key: "raw_ifDescr"},
			{Key: "error_ifDescr"},
		},
	}
	if err := p.Write(report); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body := make([]byte, 1<<16)
	n, _ := resp.Body.Read(body)
	text := string(body[:n])

	if !strings.Contains(text, "snmp_agent_task_runs_total") {
		t.Error("expected snmp_agent_task_runs_total in exposition")
	}
	if !strings.Contains(text, "snmp_agent_results_total") {
		t.Error("expected snmp_agent_results_total in exposition")
	}
}
