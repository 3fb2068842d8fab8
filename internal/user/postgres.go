package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDirectory is a credential directory backed by a Postgres users table.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds connection settings for the directory
type PostgresConfig struct {
	DSN            string
	MaxConnections int
}

// NewPostgresDirectory creates a connection pool and verifies connectivity
func NewPostgresDirectory(ctx context.Context, cfg PostgresConfig) (*PostgresDirectory, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDirectory{pool: pool}, nil
}

// GetByUsername looks up a principal by username
func (d *PostgresDirectory) GetByUsername(ctx context.Context, username string) (*Principal, error) {
	const query = `
		SELECT username, full_name, email, hashed_password, disabled
		FROM users
		WHERE username = $1`

	var p Principal
	err := d.pool.QueryRow(ctx, query, username).Scan(
		&p.Username,
		&p.FullName,
		&p.Email,
		&p.HashedPassword,
		&p.Disabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query principal: %w", err)
	}

	return &p, nil
}

// Ping verifies database connectivity
func (d *PostgresDirectory) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close releases the connection pool
func (d *PostgresDirectory) Close() {
	d.pool.Close()
}
