package cleaner

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// NullProfile counts null values per column (all columns when none are given)
func NullProfile(t *model.Table, columns ...string) (model.NullReport, error) {
	return NullProfileConcurrent(context.Background(), t, 1, columns...)
}

// NullProfileConcurrent is NullProfile with columns evaluated by up to workers
// goroutines. workers <= 0 means no limit. Results keep the requested order.
func NullProfileConcurrent(ctx context.Context, t *model.Table, workers int, columns ...string) (model.NullReport, error) {
	if len(columns) == 0 {
		columns = t.Columns()
	}

	indexes := make([]int, len(columns))
	for i, name := range columns {
		idx, ok := t.ColumnIndex(name)
		if !ok {
			return model.NullReport{}, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, name)
		}
		indexes[i] = idx
	}

	report := model.NullReport{
		TotalRows: t.Len(),
		Columns:   make([]model.ColumnNulls, len(columns)),
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	rows := t.Rows()
	for i := range columns {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			count := 0
			for _, row := range rows {
				if !row[indexes[i]].Valid {
					count++
				}
			}

			// Each goroutine owns one slot.
			report.Columns[i] = model.ColumnNulls{
				Column:    columns[i],
				NullCount: count,
				NullPct:   nullPercent(count, len(rows)),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.NullReport{}, err
	}
	return report, nil
}

// nullPercent returns count/total as a percentage rounded to 2 decimals, 0 for an empty table
func nullPercent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}

// ValueCounts returns the frequency of every value in a column, nulls included,
// sorted by count descending and then by value
func ValueCounts(t *model.Table, column string) ([]model.ValueCount, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, column)
	}

	counts := make(map[string]int)
	nulls := 0
	for _, row := range t.Rows() {
		v := row[idx]
		if !v.Valid {
			nulls++
			continue
		}
		counts[v.String]++
	}

	out := make([]model.ValueCount, 0, len(counts)+1)
	for value, count := range counts {
		out = append(out, model.ValueCount{Value: value, Count: count})
	}
	if nulls > 0 {
		out = append(out, model.ValueCount{Null: true, Count: nulls})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		// Nulls sort after any value of the same frequency.
		if out[i].Null != out[j].Null {
			return !out[i].Null
		}
		return out[i].Value < out[j].Value
	})

	return out, nil
}

// Mode returns the most frequent non-null value of a column, skipping the
// excluded values. Ties go to the lexicographically smallest value.
// ok is false when no candidate value exists.
func Mode(t *model.Table, column string, exclude ...string) (string, bool, error) {
	counts, err := ValueCounts(t, column)
	if err != nil {
		return "", false, err
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, v := range exclude {
		skip[v] = struct{}{}
	}

	for _, vc := range counts {
		if vc.Null {
			continue
		}
		if _, excluded := skip[vc.Value]; excluded {
			continue
		}
		return vc.Value, true, nil
	}
	return "", false, nil
}
