// pkg/connector/sqlite.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/David-Botos/catalog-cleaner/pkg/config"
	"github.com/David-Botos/catalog-cleaner/pkg/converter"
)

// sqliteMaxBindParams is SQLite's default SQLITE_MAX_VARIABLE_NUMBER
const sqliteMaxBindParams = 32766

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLiteConnector implements the DatabaseConnector interface for a SQLite
// database file. SQLite has no schemas: the file is the catalog and schema
// names are ignored.
type SQLiteConnector struct {
	db        *sql.DB
	logger    *zap.Logger
	path      string
	batchSize int
}

// NewSQLiteConnector opens (or creates) the database at path; ":memory:" is allowed
func NewSQLiteConnector(ctx context.Context, path string, batchSize int) (*SQLiteConnector, error) {
	logger := zap.L().Named("sqlite-connector")
	logger.Info("Opening SQLite database", zap.String("path", path))

	// One connection: writers serialize anyway and ":memory:" is per connection
	db, err := openDB(ctx, "sqlite", path, config.PoolConfig{MaxOpenConns: 1}, 5*time.Second)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("Failed to set busy timeout", zap.Error(err))
	}

	connector := &SQLiteConnector{
		db:        db,
		logger:    logger,
		path:      path,
		batchSize: batchSize,
	}

	logPoolStats(logger, path, db)
	return connector, nil
}

// DB returns the underlying database connection
func (c *SQLiteConnector) DB() *sql.DB {
	return c.db
}

// DriverName returns the database/sql driver name
func (c *SQLiteConnector) DriverName() string {
	return "sqlite"
}

// Dialect returns the SQL flavor
func (c *SQLiteConnector) Dialect() converter.Dialect {
	return converter.DialectSQLite
}

// Validate verifies the database answers and is writable
func (c *SQLiteConnector) Validate(ctx context.Context) error {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query SQLite version: %w", err)
	}

	var readOnly int
	if err := c.db.QueryRowContext(ctx, "PRAGMA query_only").Scan(&readOnly); err != nil {
		return fmt.Errorf("failed to query SQLite mode: %w", err)
	}
	if readOnly != 0 {
		return fmt.Errorf("SQLite database %s is read-only", c.path)
	}

	c.logger.Info("Connected to SQLite", zap.String("version", version), zap.String("path", c.path))
	return nil
}

// Close closes the database connection
func (c *SQLiteConnector) Close() error {
	c.logger.Info("Closing SQLite database")
	return c.db.Close()
}

// EnsureSchema is a no-op; SQLite keeps every table in the file
func (c *SQLiteConnector) EnsureSchema(ctx context.Context, schema string) error {
	return nil
}

// QualifiedName returns the quoted table name
func (c *SQLiteConnector) QualifiedName(schema, table string) string {
	return converter.QuoteIdentifier(table)
}

// RenameTableSQL renames a table
func (c *SQLiteConnector) RenameTableSQL(schema, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s",
		c.QualifiedName(schema, from), converter.QuoteIdentifier(to))
}

// LoadRows inserts rows with batched multi-row INSERT statements
func (c *SQLiteConnector) LoadRows(
	ctx context.Context,
	tx *sql.Tx,
	schema string,
	table string,
	columns []string,
	rows [][]interface{},
) (int64, error) {
	return batchInsert(ctx, tx, sqlx.QUESTION, c.QualifiedName(schema, table), columns, rows,
		bindLimitedBatch(c.batchSize, sqliteMaxBindParams, len(columns)))
}

// ExecWithTimeout executes a statement with a timeout
func (c *SQLiteConnector) ExecWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...interface{},
) (sql.Result, error) {
	return execWithTimeout(ctx, c.db, query, timeout, args...)
}
