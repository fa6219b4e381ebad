// Command agent is the SNMP polling agent's entrypoint: it wires the
// store, SNMP transport, handler registry, ambient telemetry outputs,
// and scheduler together, then runs until signaled to stop
// (SPEC_FULL.md §4.5, §6).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/netmonagent/snmp-poller/internal/applog"
	"github.com/netmonagent/snmp-poller/internal/config"
	"github.com/netmonagent/snmp-poller/internal/events"
	"github.com/netmonagent/snmp-poller/internal/handlers"
	"github.com/netmonagent/snmp-poller/internal/health"
	"github.com/netmonagent/snmp-poller/internal/model"
	"github.com/netmonagent/snmp-poller/internal/scheduler"
	"github.com/netmonagent/snmp-poller/internal/snmpclient"
	"github.com/netmonagent/snmp-poller/internal/store"
	"github.com/netmonagent/snmp-poller/internal/taskrunner"
)

const version = "1.0.0"

func main() {
	printBanner()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := applog.New(cfg.Logging)
	logger.Info("configuration loaded",
		"db_host", cfg.DB.Host, "db_name", cfg.DB.Name,
		"scheduler_interval_s", cfg.Scheduler.IntervalSeconds,
		"scheduler_max_workers", cfg.Scheduler.MaxWorkers,
		"agent_name", cfg.Scheduler.AgentName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.New(ctx, cfg.DB)
	if err != nil {
		logger.Error("failed to connect to store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	logger.Info("store connected")

	clientFactory := func(node model.Node) (taskrunner.SNMPClient, error) {
		timeout := node.TimeoutMS
		if timeout <= 0 {
			timeout = cfg.SNMP.TimeoutMS
		}
		return snmpclient.New(snmpclient.NodeContext{
			IPv4:      node.IPv4,
			Community: node.Community,
			TimeoutMS: timeout,
			Retries:   cfg.SNMP.Retries,
		})
	}

	handlerFactory := handlers.NewFactory(handlers.Deps{
		Nodes:      st,
		Interfaces: st,
		Elements:   st,
		Macs:       st,
		Arps:       st,
	}, func() bool { return cfg.SNMP.UseStubHandlers })

	healthServer, err := health.NewServer(&health.Config{
		Enabled:       cfg.Health.Enabled,
		Port:          cfg.Health.Port,
		Path:          cfg.Health.Path,
		ListenAddress: "0.0.0.0",
	}, logger)
	if err != nil {
		logger.Error("failed to build health server", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	if healthServer != nil {
		mux = healthServer.Mux()
		logger.Info("health endpoint enabled", "port", cfg.Health.Port, "path", cfg.Health.Path)
	}

	promOutput, err := events.NewPrometheus(cfg.Metrics, mux)
	if err != nil {
		logger.Error("failed to build prometheus output", "error", err)
		os.Exit(1)
	}
	if promOutput != nil {
		logger.Info("prometheus metrics enabled", "port", cfg.Health.Port, "path", cfg.Metrics.Path)
	}

	esOutput, err := events.NewElasticsearch(cfg.Elasticsearch, logger)
	if err != nil {
		logger.Error("failed to build elasticsearch output", "error", err)
		os.Exit(1)
	}
	if esOutput != nil {
		logger.Info("elasticsearch journal mirror enabled", "endpoint", cfg.Elasticsearch.Endpoint)
	}

	dispatcher := events.NewDispatcher()
	dispatcher.RegisterOutput(events.NewLogger(logger))
	dispatcher.RegisterOutput(promOutput)
	dispatcher.RegisterOutput(esOutput)

	runner := taskrunner.New(st, clientFactory, handlerFactory, logger)
	runner.Events = dispatcher
	if healthServer != nil {
		runner.Health = healthServer
	}

	sched := scheduler.New(
		st,
		runner,
		cfg.Scheduler.AgentName,
		time.Duration(cfg.Scheduler.IntervalSeconds)*time.Second,
		cfg.Scheduler.MaxWorkers,
		logger,
	)

	if healthServer != nil {
		healthServer.Start()
	}

	runDone := make(chan error, 1)
	go func() {
		runDone <- sched.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("agent started")

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-runDone:
		if err != nil {
			logger.Error("scheduler exited with error", "error", err)
		}
	}

	logger.Info("shutting down")
	sched.Stop()
	cancel()

	const shutdownTimeout = 30 * time.Second
	select {
	case <-runDone:
		logger.Info("scheduler stopped")
	case <-time.After(shutdownTimeout):
		logger.Warn("shutdown timeout exceeded, in-flight task runs may not have drained")
	}

	if esOutput != nil {
		if err := esOutput.Close(); err != nil {
			logger.Error("error closing elasticsearch output", "error", err)
		}
	}
	if err := healthServer.Close(); err != nil {
		logger.Error("error closing health server", "error", err)
	}

	logger.Info("shutdown complete")
}

func printBanner() {
	fmt.Println("snmp-poller agent")
	fmt.Printf("version %s\n", version)
	fmt.Println()
}
