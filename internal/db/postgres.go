package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens a small pool; the dashboard only reads the
// collection once per session, so few connections are needed.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS appointments (
	id               TEXT PRIMARY KEY,
	patient_name     TEXT NOT NULL,
	appointment_date DATE NOT NULL,
	appointment_time TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL DEFAULT 30 CHECK (duration_minutes > 0),
	doctor_name      TEXT NOT NULL,
	mode             TEXT NOT NULL DEFAULT 'InPerson',
	status           TEXT NOT NULL DEFAULT 'Scheduled',
	reason           TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the appointments table if it is missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create appointments table: %w", err)
	}
	return nil
}
