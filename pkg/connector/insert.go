// pkg/connector/insert.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/David-Botos/catalog-cleaner/pkg/converter"
)

const defaultBatchSize = 1000

// bindLimitedBatch returns the rows per statement that keep the bind
// variables under maxParams
func bindLimitedBatch(batchSize, maxParams, columns int) int {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if columns > 0 && maxParams > 0 && batchSize*columns > maxParams {
		batchSize = maxParams / columns
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return batchSize
}

// batchInsert performs a bulk insert with multi-row VALUES lists, rebinding
// placeholders for the driver
func batchInsert(
	ctx context.Context,
	tx *sql.Tx,
	bindType int,
	target string,
	columns []string,
	rows [][]interface{},
	batchSize int,
) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = converter.QuoteIdentifier(col)
	}
	columnStr := strings.Join(quoted, ", ")
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var totalRowsInserted int64

	// Process in batches
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		currentBatch := rows[i:end]

		placeholders := make([]string, len(currentBatch))
		args := make([]interface{}, 0, len(currentBatch)*len(columns))
		for j, row := range currentBatch {
			if len(row) != len(columns) {
				return totalRowsInserted, fmt.Errorf("row %d has %d values, expected %d", i+j, len(row), len(columns))
			}
			placeholders[j] = rowPlaceholder
			args = append(args, row...)
		}

		query := sqlx.Rebind(bindType, fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			target, columnStr, strings.Join(placeholders, ", ")))

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return totalRowsInserted, fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			// Not every driver reports it; count what was sent
			affected = int64(len(currentBatch))
		}
		totalRowsInserted += affected
	}

	return totalRowsInserted, nil
}
