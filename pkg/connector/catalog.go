// pkg/connector/catalog.go
package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/converter"
	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// ddlTimeout bounds schema and table statements
const ddlTimeout = 30 * time.Second

// Catalog publishes cleaned titles as a table through a DatabaseConnector
type Catalog struct {
	conn   DatabaseConnector
	conv   *converter.TypeConverter
	logger *zap.Logger
}

// NewCatalog creates a new Catalog instance
func NewCatalog(conn DatabaseConnector, conv *converter.TypeConverter, logger *zap.Logger) (*Catalog, error) {
	if conn == nil {
		return nil, errors.New("database connector cannot be nil")
	}
	if conv == nil {
		return nil, errors.New("type converter cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Catalog{
		conn:   conn,
		conv:   conv,
		logger: logger.Named("catalog"),
	}, nil
}

// Connector returns the underlying connector
func (c *Catalog) Connector() DatabaseConnector {
	return c.conn
}

// ReplaceTable overwrites schema.table with the titles. Rows are loaded into a
// uniquely named staging table which then replaces the target in one
// transaction, so readers never see a partial table.
func (c *Catalog) ReplaceTable(ctx context.Context, schema, table string, titles []model.Title) (int64, error) {
	start := time.Now()
	dialect := c.conn.Dialect()
	columns := c.conv.CleanedSchema()

	if err := c.conn.EnsureSchema(ctx, schema); err != nil {
		return 0, fmt.Errorf("failed to create/verify schema %s: %w", schema, err)
	}

	staging := stagingTableName(table)
	if err := c.createTable(ctx, dialect, schema, staging, columns); err != nil {
		return 0, err
	}

	n, err := c.load(ctx, schema, staging, columns, c.conv.ConvertTitles(dialect, titles))
	if err != nil {
		c.dropTable(schema, staging)
		return 0, err
	}

	if err := c.swap(ctx, schema, staging, table); err != nil {
		c.dropTable(schema, staging)
		return n, err
	}

	c.logger.Info("Replaced catalog table",
		zap.String("table", c.conn.QualifiedName(schema, table)),
		zap.Int64("rows", n),
		zap.Duration("duration", time.Since(start)))
	return n, nil
}

// CountRows returns the number of rows in schema.table
func (c *Catalog) CountRows(ctx context.Context, schema, table string) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, ddlTimeout)
	defer cancel()

	var n int64
	query := "SELECT COUNT(*) FROM " + c.conn.QualifiedName(schema, table)
	if err := c.conn.DB().QueryRowContext(queryCtx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", table, err)
	}
	return n, nil
}

func (c *Catalog) createTable(ctx context.Context, dialect converter.Dialect, schema, table string, columns []converter.OutputColumn) error {
	defs, err := c.conv.GenerateColumnDefinitions(dialect, columns)
	if err != nil {
		return err
	}

	createSQL := fmt.Sprintf(
		"CREATE TABLE %s (\n\t%s\n)",
		c.conn.QualifiedName(schema, table),
		strings.Join(defs, ",\n\t"),
	)

	if _, err := c.conn.ExecWithTimeout(ctx, createSQL, ddlTimeout); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	c.logger.Debug("Created table", zap.String("table", table))
	return nil
}

func (c *Catalog) load(ctx context.Context, schema, table string, columns []converter.OutputColumn, rows [][]interface{}) (int64, error) {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}

	var n int64
	err := execTx(ctx, c.conn.DB(), func(tx *sql.Tx) error {
		var err error
		n, err = c.conn.LoadRows(ctx, tx, schema, table, names, rows)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load rows into %s: %w", table, err)
	}
	return n, nil
}

// swap drops the target and renames the staging table in its place
func (c *Catalog) swap(ctx context.Context, schema, staging, table string) error {
	return execTx(ctx, c.conn.DB(), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+c.conn.QualifiedName(schema, table)); err != nil {
			return fmt.Errorf("error dropping table %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, c.conn.RenameTableSQL(schema, staging, table)); err != nil {
			return fmt.Errorf("error renaming table %s: %w", staging, err)
		}
		return nil
	})
}

// dropTable removes a leftover staging table; failures are only logged
func (c *Catalog) dropTable(schema, table string) {
	ctx, cancel := context.WithTimeout(context.Background(), ddlTimeout)
	defer cancel()

	if _, err := c.conn.ExecWithTimeout(ctx, "DROP TABLE IF EXISTS "+c.conn.QualifiedName(schema, table), ddlTimeout); err != nil {
		c.logger.Warn("Failed to drop staging table", zap.String("table", table), zap.Error(err))
	}
}

// stagingTableName returns a unique table name derived from table
func stagingTableName(table string) string {
	return table + "_staging_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// execTx calls a function within a transaction.
func execTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
