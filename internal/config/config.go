package config

import "time"

// Config represents the complete agent configuration, loaded entirely
// from environment variables (SPEC_FULL.md §6) — there is no config
// file surface, matching the teacher's own env-first Load().
type Config struct {
	DB            DBConfig
	Scheduler     SchedulerConfig
	SNMP          SNMPConfig
	Logging       LoggingConfig
	Health        HealthConfig
	Metrics       MetricsConfig
	Elasticsearch ElasticsearchConfig
}

// DBConfig names the Postgres connection the persistence layer opens
// against the mon schema.
type DBConfig struct {
	Host            string
	Name            string
	User            string
	Password        string
	Port            int
	TimeoutMS       int
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

// SchedulerConfig drives the scheduler's tick and worker pool.
type SchedulerConfig struct {
	IntervalSeconds int
	MaxWorkers      int
	AgentName       string
}

// SNMPConfig holds the defaults the SNMP client applies when a node
// doesn't specify its own timeout/retries.
type SNMPConfig struct {
	TimeoutMS       int
	Retries         int
	UseStubHandlers bool
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// HealthConfig controls the liveness endpoint.
type HealthConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// MetricsConfig controls the in-process Prometheus registry exposition.
type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// ElasticsearchConfig controls the optional journal/result mirror.
type ElasticsearchConfig struct {
	Enabled      bool
	Endpoint     string
	IndexPattern string
	Username     string
	Password     string
	APIKey       string
}

// DefaultConfig returns the configuration used when no environment
// variable overrides a given field.
func DefaultConfig() *Config {
	return &Config{
		DB: DBConfig{
			Host:            "localhost",
			Name:            "mon",
			User:            "mon",
			Port:            5432,
			TimeoutMS:       5000,
			MaxConns:        10,
			MinConns:        3,
			ConnMaxLifetime: time.Hour,
		},
		Scheduler: SchedulerConfig{
			IntervalSeconds: 60,
			MaxWorkers:      3,
			AgentName:       "default",
		},
		SNMP: SNMPConfig{
			TimeoutMS: 3000,
			Retries:   1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Health: HealthConfig{
			Enabled: true,
			Port:    8080,
			Path:    "/health",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Elasticsearch: ElasticsearchConfig{
			Enabled:      false,
			IndexPattern: "snmp-agent-%{+yyyy.MM.dd}",
		},
	}
}

// Load builds a Config from defaults overridden by the process
// environment (CONFIG_FILE-style file loading is intentionally not
// supported — SPEC_FULL.md treats configuration as env-only).
func Load() (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
