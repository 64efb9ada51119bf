// pkg/cleaner/operations.go
package cleaner

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// recorder collects cleaning operations for the audit trail.
// A nil recorder discards everything.
type recorder struct {
	ctx    model.CleaningContext
	now    func() time.Time
	ops    []model.CleaningOperation
	counts map[string]int
}

func newRecorder(ctx model.CleaningContext) *recorder {
	return &recorder{
		ctx:    ctx,
		now:    time.Now,
		counts: make(map[string]int),
	}
}

// changed records a value rewrite
func (r *recorder) changed(
	t *model.Table,
	row model.Row,
	column string,
	original sql.NullString,
	newValue string,
	operation, reason string,
) {
	if r == nil {
		return
	}

	r.ops = append(r.ops, model.CleaningOperation{
		RunID:             r.ctx.RunID,
		SchemaName:        r.ctx.SchemaName,
		TableName:         r.ctx.TableName,
		ColumnName:        column,
		OriginalValue:     original,
		NewValue:          newValue,
		RowIdentifier:     t.Value(row, model.ColShowID).String,
		CleaningOperation: operation,
		CleaningReason:    reason,
		CleanedAt:         r.now(),
	})
	r.counts[operation]++
}

// dropped records a row removal, keyed on the column that caused it
func (r *recorder) dropped(t *model.Table, row model.Row, column, reason string) {
	if r == nil {
		return
	}
	r.changed(t, row, column, t.Value(row, column), "", model.OpRowDrop, reason)
}

// operations returns the recorded operations
func (r *recorder) operations() []model.CleaningOperation {
	if r == nil {
		return nil
	}
	return r.ops
}

// operationCounts returns a copy of the per-kind counters
func (r *recorder) operationCounts() map[string]int {
	out := make(map[string]int)
	if r == nil {
		return out
	}
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// toInt32 converts a trimmed decimal string to int32
func toInt32(s string) (int32, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, errors.New("empty string")
	}
	v, err := strconv.ParseInt(cleaned, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
