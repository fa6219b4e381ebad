// Package store is the persistence layer over the mon schema
// (SPEC_FULL.md §4.3): node/request lookup, journal open/close,
// raw-result insert, and the per-domain upserts each handler needs.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/netmonagent/snmp-poller/internal/config"
	"github.com/netmonagent/snmp-poller/internal/errs"
)

// Store wraps a pgx connection pool against the mon schema. Every
// operation below uses the pool directly rather than holding a
// checked-out connection, so the same Store is safe to share across
// the scheduler's worker pool.
type Store struct {
	pool *pgxpool.Pool
}

// New builds a Store from cfg, failing fast (Fatal category, per
// SPEC_FULL.md §7) if the database cannot be reached at startup.
func New(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("store: parse pool config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.ConnConfig.ConnectTimeout = time.Duration(cfg.TimeoutMS) * time.Millisecond

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.Fatal, fmt.Errorf("store: create pool: %w", err))
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.Fatal, fmt.Errorf("store: ping: %w", err))
	}

	return &Store{pool: pool}, nil
}

// Close releases every pooled connection.
func (s *Store) Close() {
	s.pool.Close()
}

// Pool exposes the underlying pool to callers outside this package
// that need an explicit transaction (Begin/Commit/Rollback).
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// connString renders cfg as a libpq connection URL.
func connString(cfg config.DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
	)
}
