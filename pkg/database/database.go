package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/config"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// DB wraps sqlx.DB so repositories get transactions and health checks
// from one place
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// New connects using the configured DSN and applies the pool limits
func New(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	db, err := NewWithDSN(cfg.DSN(), log)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// NewWithDSN connects to Postgres with a raw DSN. Integration tests use
// this against a throwaway container, so no pool tuning here.
func NewWithDSN(dsn string, log *logger.Logger) (*DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &DB{DB: db, logger: log}, nil
}

// NewFromDB wraps an already open sqlx connection. Unit tests use this to
// substitute sqlmock for a real database.
func NewFromDB(db *sqlx.DB, log *logger.Logger) *DB {
	return &DB{DB: db, logger: log}
}

func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// Health reports up or down for the readiness endpoint, bounded by a
// one second ping
func (db *DB) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	return map[string]string{"status": "up"}
}

// Transaction runs fn inside a transaction, committing when fn returns nil
// and rolling back otherwise. The error from fn is returned as is so
// callers can still match it.
func (db *DB) Transaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error().Err(rbErr).Msg("transaction rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
