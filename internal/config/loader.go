package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadFromEnv overrides cfg's fields from the process environment,
// following the external-interface env vars of SPEC_FULL.md §6.
func LoadFromEnv(cfg *Config) error {
	// Database
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.DB.Host = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.DB.Name = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.DB.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT: %w", err)
		}
		cfg.DB.Port = port
	}
	if v := os.Getenv("DB_TIMEOUT"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_TIMEOUT: %w", err)
		}
		cfg.DB.TimeoutMS = ms
	}
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
		}
		cfg.DB.MaxConns = int32(n)
	}
	if v := os.Getenv("DB_MIN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
		}
		cfg.DB.MinConns = int32(n)
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
		}
		cfg.DB.ConnMaxLifetime = d
	}

	// Scheduler
	if v := os.Getenv("MAX_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_WORKERS: %w", err)
		}
		cfg.Scheduler.MaxWorkers = n
	}
	if v := os.Getenv("SCHEDULER_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_INTERVAL: %w", err)
		}
		cfg.Scheduler.IntervalSeconds = n
	}
	if v := os.Getenv("AGENT_NAME"); v != "" {
		cfg.Scheduler.AgentName = v
	}

	// SNMP
	if v := os.Getenv("SNMP_TIMEOUT"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SNMP_TIMEOUT: %w", err)
		}
		cfg.SNMP.TimeoutMS = ms
	}
	if v := os.Getenv("SNMP_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SNMP_RETRIES: %w", err)
		}
		cfg.SNMP.Retries = n
	}
	if v := os.Getenv("USE_STUB_HANDLERS"); v != "" {
		cfg.SNMP.UseStubHandlers = v == "true" || v == "1"
	}

	// Logging
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Health
	if v := os.Getenv("HEALTH_CHECK_ENABLED"); v != "" {
		cfg.Health.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("HEALTH_CHECK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HEALTH_CHECK_PORT: %w", err)
		}
		cfg.Health.Port = port
	}
	if v := os.Getenv("HEALTH_CHECK_PATH"); v != "" {
		cfg.Health.Path = v
	}

	// Metrics
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid METRICS_PORT: %w", err)
		}
		cfg.Metrics.Port = port
	}
	if v := os.Getenv("METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// Elasticsearch
	if v := os.Getenv("ES_ENABLED"); v != "" {
		cfg.Elasticsearch.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("ES_ENDPOINT"); v != "" {
		cfg.Elasticsearch.Endpoint = v
	}
	if v := os.Getenv("ES_INDEX_PATTERN"); v != "" {
		cfg.Elasticsearch.IndexPattern = v
	}
	if v := os.Getenv("ES_USERNAME"); v != "" {
		cfg.Elasticsearch.Username = v
	}
	if v := os.Getenv("ES_PASSWORD"); v != "" {
		cfg.Elasticsearch.Password = v
	}
	if v := os.Getenv("ES_API_KEY"); v != "" {
		cfg.Elasticsearch.APIKey = v
	}

	return nil
}
