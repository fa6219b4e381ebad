package events

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netmonagent/snmp-poller/internal/config"
)

// Prometheus exposes task-run counters, per-result-key counts, and a
// task-duration histogram on a ServeMux supplied by the caller — the health listener's mux, per
// SPEC_FULL.md §6 ("served on the *same* lightweight internal listener
// as the health endpoint"). Adapted from the teacher's
// outputs.PrometheusOutput, which instead opened its own listener.
type Prometheus struct {
	taskRunsTotal   *prometheus.CounterVec
	resultsTotal    *prometheus.CounterVec
	taskDurationSec prometheus.Histogram
}

// NewPrometheus registers the agent's metrics on mux at cfg.Path, or
// returns (nil, nil) when disabled.
func NewPrometheus(cfg config.MetricsConfig, mux *http.ServeMux) (*Prometheus, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	registry := prometheus.NewRegistry()

	p := &Prometheus{
		taskRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snmp_agent_task_runs_total",
			Help: "Total Task Runner invocations by outcome.",
		}, []string{"outcome"}),
		resultsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snmp_agent_results_total",
			Help: "Total Result rows reported, by full result key.",
		}, []string{"key"}),
		taskDurationSec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "snmp_agent_task_duration_seconds",
			Help:    "Wall-clock duration of one Task Runner invocation.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(p.taskRunsTotal, p.resultsTotal, p.taskDurationSec)
	mux.Handle(cfg.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return p, nil
}

func (p *Prometheus) Write(report *Report) error {
	if p == nil {
		return nil
	}

	outcome := "success"
	if !report.Succeeded {
		outcome = "failure"
	}
	p.taskRunsTotal.WithLabelValues(outcome).Inc()

	for _, r := range report.Results {
		p.resultsTotal.WithLabelValues(r.Key).Inc()
	}

	if report.Journal.EndDt != nil {
		p.taskDurationSec.Observe(report.Journal.EndDt.Sub(report.Journal.StartDt).Seconds())
	}

	return nil
}

func (p *Prometheus) Name() string { return "prometheus" }
