// pkg/connector/audit.go
package connector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/converter"
	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// AuditTable is the table receiving cleaning operations, inside the catalog schema
const AuditTable = "cleaning_operations"

// auditColumns follow the db tags of model.CleaningOperation
var auditColumns = []string{
	"run_id",
	"schema_name",
	"table_name",
	"column_name",
	"original_value",
	"new_value",
	"row_identifier",
	"cleaning_operation",
	"cleaning_reason",
	"cleaned_at",
}

// AuditTrail records cleaning operations in the catalog
type AuditTrail struct {
	conn      DatabaseConnector
	db        *sqlx.DB
	conv      *converter.TypeConverter
	logger    *zap.Logger
	batchSize int
}

// NewAuditTrail creates a new AuditTrail instance
func NewAuditTrail(conn DatabaseConnector, conv *converter.TypeConverter, logger *zap.Logger, batchSize int) (*AuditTrail, error) {
	if conn == nil {
		return nil, errors.New("database connector cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &AuditTrail{
		conn:      conn,
		db:        sqlx.NewDb(conn.DB(), conn.DriverName()),
		conv:      conv,
		logger:    logger.Named("audit"),
		batchSize: bindLimitedBatch(batchSize, sqliteMaxBindParams, len(auditColumns)),
	}, nil
}

// EnsureTable creates the audit table if it doesn't exist
func (a *AuditTrail) EnsureTable(ctx context.Context, schema string) error {
	if err := a.conn.EnsureSchema(ctx, schema); err != nil {
		return fmt.Errorf("failed to create/verify schema %s: %w", schema, err)
	}

	dialect := a.conn.Dialect()
	textType, err := a.conv.MapColumnType(dialect, model.KindString)
	if err != nil {
		return err
	}
	timestampType, err := a.conv.TimestampType(dialect)
	if err != nil {
		return err
	}

	defs := make([]string, 0, len(auditColumns))
	for _, col := range auditColumns {
		switch col {
		case "original_value":
			defs = append(defs, fmt.Sprintf("%s %s NULL", converter.QuoteIdentifier(col), textType))
		case "cleaned_at":
			defs = append(defs, fmt.Sprintf("%s %s NOT NULL", converter.QuoteIdentifier(col), timestampType))
		default:
			defs = append(defs, fmt.Sprintf("%s %s NOT NULL", converter.QuoteIdentifier(col), textType))
		}
	}

	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		a.conn.QualifiedName(schema, AuditTable),
		strings.Join(defs, ",\n\t"))

	if _, err := a.conn.ExecWithTimeout(ctx, createSQL, ddlTimeout); err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}

	a.logger.Info("Ensured audit table exists", zap.String("table", AuditTable))
	return nil
}

// RecordOperations batch inserts cleaning operations into the audit table
func (a *AuditTrail) RecordOperations(ctx context.Context, schema string, operations []model.CleaningOperation) error {
	if len(operations) == 0 {
		return nil
	}

	named := make([]string, len(auditColumns))
	quoted := make([]string, len(auditColumns))
	for i, col := range auditColumns {
		named[i] = ":" + col
		quoted[i] = converter.QuoteIdentifier(col)
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		a.conn.QualifiedName(schema, AuditTable),
		strings.Join(quoted, ", "),
		strings.Join(named, ", "))

	// Begin transaction
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				a.logger.Error("Failed to rollback transaction",
					zap.NamedError("rollback_error", rbErr),
					zap.Error(err))
			}
		}
	}()

	// Execute batch insert
	for i := 0; i < len(operations); i += a.batchSize {
		end := i + a.batchSize
		if end > len(operations) {
			end = len(operations)
		}
		if _, err = tx.NamedExecContext(ctx, insertSQL, operations[i:end]); err != nil {
			return fmt.Errorf("failed to insert cleaning operations at %d: %w", i, err)
		}
	}

	// Commit transaction
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	a.logger.Info("Recorded cleaning operations", zap.Int("count", len(operations)))
	return nil
}
