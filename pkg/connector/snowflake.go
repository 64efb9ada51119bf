// pkg/connector/snowflake.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	sf "github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/config"
	"github.com/David-Botos/catalog-cleaner/pkg/converter"
)

// snowflakeMaxBindParams caps the bind variables of one multi-row insert
const snowflakeMaxBindParams = 16384

func init() {
	sqlx.BindDriver("snowflake", sqlx.QUESTION)
}

// SnowflakeConnector implements the DatabaseConnector interface for Snowflake
type SnowflakeConnector struct {
	db        *sql.DB
	logger    *zap.Logger
	cfg       *config.SnowflakeConfig
	batchSize int
}

// NewSnowflakeConnector opens and pings a Snowflake pool
func NewSnowflakeConnector(ctx context.Context, cfg *config.SnowflakeConfig, batchSize int) (*SnowflakeConnector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("snowflake configuration cannot be nil")
	}
	logger := zap.L().Named("snowflake-connector")

	dsn, err := snowflakeDSN(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Connecting to Snowflake",
		zap.String("account", cfg.Account),
		zap.String("user", cfg.User),
		zap.String("database", cfg.Database),
		zap.String("warehouse", cfg.Warehouse),
		zap.String("role", cfg.Role))

	db, err := openDB(ctx, "snowflake", dsn, cfg.Pool, 10*time.Second)
	if err != nil {
		return nil, err
	}

	logPoolStats(logger, cfg.Database, db)
	return &SnowflakeConnector{db: db, logger: logger, cfg: cfg, batchSize: batchSize}, nil
}

// snowflakeDSN builds the DSN; the statement timeout is a session parameter
// so every pooled connection carries it
func snowflakeDSN(cfg *config.SnowflakeConfig) (string, error) {
	sfConfig := &sf.Config{
		Account:       cfg.Account,
		User:          cfg.User,
		Password:      cfg.Password,
		Database:      cfg.Database,
		Warehouse:     cfg.Warehouse,
		Role:          cfg.Role,
		Authenticator: cfg.Authenticator,
	}
	if cfg.QueryTimeout > 0 {
		timeout := strconv.Itoa(int(cfg.QueryTimeout.Seconds()))
		sfConfig.Params = map[string]*string{"STATEMENT_TIMEOUT_IN_SECONDS": &timeout}
	}

	dsn, err := sf.DSN(sfConfig)
	if err != nil {
		return "", fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}
	return dsn, nil
}

// DB returns the underlying database connection
func (c *SnowflakeConnector) DB() *sql.DB {
	return c.db
}

// DriverName returns the database/sql driver name
func (c *SnowflakeConnector) DriverName() string {
	return "snowflake"
}

// Dialect returns the SQL flavor
func (c *SnowflakeConnector) Dialect() converter.Dialect {
	return converter.DialectSnowflake
}

// Validate checks that the session landed in the configured database
func (c *SnowflakeConnector) Validate(ctx context.Context) error {
	var role, database, warehouse sql.NullString
	err := c.db.QueryRowContext(ctx, "SELECT CURRENT_ROLE(), CURRENT_DATABASE(), CURRENT_WAREHOUSE()").Scan(
		&role, &database, &warehouse)
	if err != nil {
		return fmt.Errorf("failed to verify Snowflake access: %w", err)
	}

	c.logger.Info("Connected to Snowflake",
		zap.String("role", role.String),
		zap.String("database", database.String),
		zap.String("warehouse", warehouse.String))

	if !warehouse.Valid {
		return fmt.Errorf("no active warehouse for role %s", role.String)
	}
	// Unquoted identifiers come back upper-cased
	if !strings.EqualFold(database.String, c.cfg.Database) {
		return fmt.Errorf("session database is %q, expected %q", database.String, c.cfg.Database)
	}
	return nil
}

// Close closes the database connection
func (c *SnowflakeConnector) Close() error {
	c.logger.Info("Closing Snowflake connection")
	logPoolStats(c.logger, c.cfg.Database, c.db)
	return c.db.Close()
}

// EnsureSchema creates a schema if it doesn't exist
func (c *SnowflakeConnector) EnsureSchema(ctx context.Context, schema string) error {
	_, err := c.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+converter.QuoteIdentifier(schema))
	return err
}

// QualifiedName returns the quoted schema.table name
func (c *SnowflakeConnector) QualifiedName(schema, table string) string {
	return converter.QualifiedName(schema, table)
}

// RenameTableSQL renames a table. Snowflake moves an unqualified target into
// the session schema, so the new name is qualified too.
func (c *SnowflakeConnector) RenameTableSQL(schema, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s",
		c.QualifiedName(schema, from), c.QualifiedName(schema, to))
}

// LoadRows inserts rows with batched multi-row INSERT statements
func (c *SnowflakeConnector) LoadRows(
	ctx context.Context,
	tx *sql.Tx,
	schema string,
	table string,
	columns []string,
	rows [][]interface{},
) (int64, error) {
	return batchInsert(ctx, tx, sqlx.QUESTION, c.QualifiedName(schema, table), columns, rows,
		bindLimitedBatch(c.batchSize, snowflakeMaxBindParams, len(columns)))
}

// ExecWithTimeout executes a statement with a timeout
func (c *SnowflakeConnector) ExecWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...interface{},
) (sql.Result, error) {
	return execWithTimeout(ctx, c.db, query, timeout, args...)
}
