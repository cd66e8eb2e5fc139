package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/config"
	"pttech-backend/pkg/logger"
)

// PostgresDB wraps the pgx connection pool and its lifecycle.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	config config.DatabaseConfig
}

func New(cfg config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{config: cfg}
}

func (db *PostgresDB) connString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		db.config.User,
		db.config.Password,
		db.config.Host,
		db.config.Port,
		db.config.Database,
		db.config.SSLMode,
	)
}

// Connect establishes the pool, retrying with exponential backoff so a
// restarting database does not take the service down with it.
func (db *PostgresDB) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(db.connString())
	if err != nil {
		return fmt.Errorf("parse database config: %w", err)
	}

	poolCfg.MaxConns = db.config.MaxConns
	poolCfg.MinConns = db.config.MinConns
	poolCfg.ConnConfig.ConnectTimeout = db.config.ConnectTimeout

	var lastErr error
	for attempt := 1; attempt <= db.config.MaxRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, db.config.ConnectTimeout)
		pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
		cancel()

		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr != nil {
				pool.Close()
				lastErr = pingErr
			} else {
				db.Pool = pool
				logger.Info("database connected", map[string]interface{}{"attempt": attempt})
				return nil
			}
		} else {
			lastErr = err
		}

		if attempt < db.config.MaxRetries {
			delay := db.config.RetryDelay * time.Duration(1<<uint(attempt-1))
			logger.Warn("database connection failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"delay":   delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", db.config.MaxRetries, lastErr)
}

func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.Pool.Ping(ctx)
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
