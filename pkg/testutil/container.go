// Package testutil carries the shared test harness: a testcontainers
// Postgres for integration suites, sqlmock plumbing for unit tests, and
// small HTTP helpers.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/database"
)

const (
	containerImage    = "postgres:15-alpine"
	containerDatabase = "pharmarec_test"
	containerUser     = "test"
	containerPassword = "test"
)

// PostgresContainer is a throwaway Postgres for integration tests,
// carrying the DSN to reach it
type PostgresContainer struct {
	*postgres.PostgresContainer
	DSN string
}

// NewPostgresContainer starts a Postgres container and blocks until it
// accepts connections. The caller owns termination; suite.go shares one
// container across all integration tests.
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(containerImage),
		postgres.WithDatabase(containerDatabase),
		postgres.WithUsername(containerUser),
		postgres.WithPassword(containerPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("container connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: container, DSN: dsn}, nil
}

// Connect opens a sqlx connection to the container database
func (c *PostgresContainer) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect to test database: %w", err)
	}
	return db, nil
}

// Bootstrap applies the application schema. The DDL is idempotent, so
// calling it against a reused container is safe.
func (c *PostgresContainer) Bootstrap(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, database.Schema()); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
