package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// applicationName tags every preset-store connection in pg_stat_activity.
const applicationName = "aurinpc"

// DB owns the preset store connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New parses dsn, opens a pool and checks it with a ping.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close releases every pooled connection.
func (d *DB) Close() { d.pool.Close() }

// Pool exposes the pool for callers running their own queries.
func (d *DB) Pool() *pgxpool.Pool { return d.pool }

// Presets returns a preset repository backed by this pool.
func (d *DB) Presets() *PresetRepository {
	return NewPresetRepository(d.pool)
}
