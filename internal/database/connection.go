// Package database manages the PostgreSQL connection pool, schema
// migrations and the bulk CSV load path for the sales table.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/logutil"
)

// Connection wraps the pgx connection pool. All access is read-only after
// the bulk load; the pool is safe for concurrent use and is the only shared
// state between in-flight requests besides the cache client.
type Connection struct {
	Pool *pgxpool.Pool
}

// Connect builds the pool from configuration and verifies connectivity.
// Acquisition is bounded by ConnectTimeout; query execution itself carries
// no timeout.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Str("url", logutil.MaskDSN(cfg.URL)).
		Int32("max_conns", cfg.MaxConns).
		Int32("min_conns", cfg.MinConns).
		Msg("database connected")

	return &Connection{Pool: pool}, nil
}

// RecordCount returns the number of loaded sales records. Used by the
// health endpoint.
func (c *Connection) RecordCount(ctx context.Context) (int64, error) {
	var count int64
	if err := c.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales").Scan(&count); err != nil {
		return 0, fmt.Errorf("count sales records: %w", err)
	}
	return count, nil
}

// Close releases the pool. Part of the process shutdown hook.
func (c *Connection) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
