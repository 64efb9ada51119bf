// pkg/connector/connector.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/config"
	"github.com/David-Botos/catalog-cleaner/pkg/converter"
)

// DatabaseConnector defines the interface for catalog database connectors
type DatabaseConnector interface {
	// DB returns the underlying database connection
	DB() *sql.DB

	// DriverName returns the database/sql driver name
	DriverName() string

	// Dialect returns the SQL flavor spoken by the database
	Dialect() converter.Dialect

	// Validate verifies the connection and permissions
	Validate(ctx context.Context) error

	// Close closes the connection and releases resources
	Close() error

	// EnsureSchema creates a schema if it doesn't exist
	EnsureSchema(ctx context.Context, schema string) error

	// QualifiedName returns the quoted name of a table in a schema
	QualifiedName(schema, table string) string

	// RenameTableSQL returns the statement renaming a table within its schema
	RenameTableSQL(schema, from, to string) string

	// LoadRows bulk loads rows into an existing table inside tx
	LoadRows(ctx context.Context, tx *sql.Tx, schema, table string, columns []string, rows [][]interface{}) (int64, error)

	// ExecWithTimeout executes a statement with a timeout
	ExecWithTimeout(ctx context.Context, query string, timeout time.Duration, args ...interface{}) (sql.Result, error)
}

// openDB opens a pool, applies its limits and pings it before returning
func openDB(ctx context.Context, driver, dsn string, pool config.PoolConfig, pingTimeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	applyPool(db, pool)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s within %v: %w", driver, pingTimeout, err)
	}
	return db, nil
}

// applyPool sets the non-zero pool limits
func applyPool(db *sql.DB, pool config.PoolConfig) {
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}
}

// logPoolStats logs connection pool statistics
func logPoolStats(logger *zap.Logger, name string, db *sql.DB) {
	stats := db.Stats()
	logger.Debug("Connection pool stats",
		zap.String("database", name),
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int("max_open", stats.MaxOpenConnections),
		zap.Int64("wait_count", stats.WaitCount),
		zap.Duration("wait_duration", stats.WaitDuration),
	)
}

// execWithTimeout backs the ExecWithTimeout connector methods
func execWithTimeout(ctx context.Context, db *sql.DB, query string, timeout time.Duration, args ...interface{}) (sql.Result, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.ExecContext(queryCtx, query, args...)
}
