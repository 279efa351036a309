// Package db provides database connectivity and migration functionality for the
// feedback board. It handles establishing the pgx connection pool and running
// schema migrations at startup. The uniqueness and cascade-delete invariants of
// the data model live in the migrated schema, not in application code, so the
// migration step is not optional.
package db

import (
	"context"
	"fmt"
	// `time` is used for timeouts and connection pool configuration.
	"time"

	// `golang-migrate` handles schema migration versioning and execution.
	"github.com/golang-migrate/migrate/v4"
	// The database and file source drivers register themselves on import.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	// golang-migrate's postgres driver uses database/sql with lib/pq under the
	// hood when given a DSN, so lib/pq must be linked in.
	_ "github.com/lib/pq"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	// `pgxpool` is part of the `jackc/pgx` suite, providing a robust connection pool for PostgreSQL.
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/feedbackboard-go/apperror"
	"github.com/user/feedbackboard-go/config"
)

// Querier is the subset of *pgxpool.Pool the services actually use.
// Services depend on this interface rather than the concrete pool so tests can
// substitute a mock connection; *pgxpool.Pool satisfies it as-is.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool establishes a connection pool to PostgreSQL using the provided configuration.
//
// The pool uses the pgx/v5 driver and is configured with max connections,
// connection lifetime, and idle connection management from the PoolConfig.
func NewPool(cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	// `pgxpool.ParseConfig` parses the DSN string into a `pgxpool.Config` struct,
	// which then allows fine-grained pool settings.
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// Use a context with a timeout for pool creation so an unreachable database
	// fails the startup instead of blocking it indefinitely.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	// Verify the connection by pinging before handing the pool to the rest of the app.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close() // Clean up on connection failure
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s", cfg.DBName), err)
	}

	return pool, nil
}

// getDSN constructs a DSN string from PoolConfig, suitable for golang-migrate.
// golang-migrate's postgres driver uses a lib/pq format DSN, without the
// pgx-specific pool parameters.
func getDSN(cfg *config.PoolConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)
}

// RunMigrations applies any pending database migrations from the specified
// migrations directory. It uses golang-migrate to handle versioning.
//
// Migration files follow golang-migrate's naming convention:
// {version}_{description}.up.sql / {version}_{description}.down.sql
func RunMigrations(cfg *config.PoolConfig, migrationsPath string) error {
	// golang-migrate opens its own connection from the DSN; the pgx pool is not
	// directly usable by migrate's postgres driver.
	m, err := migrate.New(
		// `file://` specifies that migrations are read from the local filesystem.
		"file://"+migrationsPath,
		getDSN(cfg),
	)
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	// m.Close() returns two errors, one for the source and one for the database
	// instance; neither failing should fail the migration itself, so they are
	// only reported.
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			if srcErr != nil {
				fmt.Printf("Warning: error closing migration source: %v\n", srcErr)
			}
			if dbErr != nil {
				fmt.Printf("Warning: error closing migration database instance: %v\n", dbErr)
			}
		}
	}()

	// `m.Up()` applies all available "up" migrations. `migrate.ErrNoChange` just
	// means the schema is already current, which is not an actual error.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	return nil
}
