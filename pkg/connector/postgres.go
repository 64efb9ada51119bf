// pkg/connector/postgres.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/config"
	"github.com/David-Botos/catalog-cleaner/pkg/converter"
)

// PostgresConnector implements the DatabaseConnector interface for PostgreSQL
type PostgresConnector struct {
	db     *sql.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewPostgresConnector opens and pings a PostgreSQL pool through lib/pq
func NewPostgresConnector(ctx context.Context, cfg *config.PostgresConfig) (*PostgresConnector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("postgres configuration cannot be nil")
	}
	logger := zap.L().Named("postgres-connector")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := openDB(ctx, "postgres", cfg.ConnectionString(), cfg.Pool, 5*time.Second)
	if err != nil {
		return nil, err
	}

	logPoolStats(logger, cfg.Database, db)
	return &PostgresConnector{db: db, logger: logger, cfg: cfg}, nil
}

// DB returns the underlying database connection
func (c *PostgresConnector) DB() *sql.DB {
	return c.db
}

// DriverName returns the database/sql driver name
func (c *PostgresConnector) DriverName() string {
	return "postgres"
}

// Dialect returns the SQL flavor
func (c *PostgresConnector) Dialect() converter.Dialect {
	return converter.DialectPostgres
}

// Validate checks the server version and that the user may create schemas,
// which replacing the catalog table requires
func (c *PostgresConnector) Validate(ctx context.Context) error {
	var (
		version   string
		canCreate bool
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT version(), has_database_privilege(current_user, current_database(), 'CREATE')",
	).Scan(&version, &canCreate)
	if err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}

	c.logger.Info("Connected to PostgreSQL",
		zap.String("version", version),
		zap.String("database", c.cfg.Database),
		zap.String("host", c.cfg.Host))

	if !canCreate {
		return fmt.Errorf("user %s lacks CREATE on database %s", c.cfg.User, c.cfg.Database)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresConnector) Close() error {
	c.logger.Info("Closing PostgreSQL connection")
	logPoolStats(c.logger, c.cfg.Database, c.db)
	return c.db.Close()
}

// EnsureSchema creates a schema if it doesn't exist
func (c *PostgresConnector) EnsureSchema(ctx context.Context, schema string) error {
	_, err := c.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(schema))
	return err
}

// QualifiedName returns the quoted schema.table name
func (c *PostgresConnector) QualifiedName(schema, table string) string {
	return converter.QualifiedName(schema, table)
}

// RenameTableSQL renames a table; the new name stays in the same schema
func (c *PostgresConnector) RenameTableSQL(schema, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s",
		c.QualifiedName(schema, from), converter.QuoteIdentifier(to))
}

// LoadRows streams rows into the table with COPY
func (c *PostgresConnector) LoadRows(
	ctx context.Context,
	tx *sql.Tx,
	schema string,
	table string,
	columns []string,
	rows [][]interface{},
) (int64, error) {
	stmt, err := tx.PrepareContext(ctx, pq.CopyInSchema(schema, table, columns...))
	if err != nil {
		return 0, fmt.Errorf("error preparing copy: %w", err)
	}
	defer stmt.Close()

	var n int64
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return n, fmt.Errorf("error sending row %d: %w", n, err)
		}
		n++
	}

	// Empty exec to flush the buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		return n, fmt.Errorf("error executing copy: %w", err)
	}

	c.logger.Debug("Copied rows", zap.String("table", table), zap.Int64("rows", n))
	return n, nil
}

// ExecWithTimeout executes a query with a timeout
func (c *PostgresConnector) ExecWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...interface{},
) (sql.Result, error) {
	return execWithTimeout(ctx, c.db, query, timeout, args...)
}
