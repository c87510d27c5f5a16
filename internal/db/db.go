// Package db opens the Postgres pool backing the product catalog. Cart
// documents live in object storage, so Postgres only serves catalog reads
// plus occasional seed and import writes; the pool is sized for that.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultMaxConns = 8

func poolConfig(dsn string, maxConns int32) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	cfg.MaxConns = maxConns
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	return cfg, nil
}

// Connect opens the catalog pool and verifies connectivity with a ping.
// maxConns caps the pool size; zero or negative picks the catalog default.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(dsn, maxConns)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
