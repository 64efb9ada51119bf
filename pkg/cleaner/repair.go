package cleaner

import (
	"fmt"
	"sort"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

var (
	// RequiredColumns drop the row when null
	RequiredColumns = []string{model.ColShowID, model.ColTitle, model.ColDateAdded, model.ColReleaseYear}
	// SentinelColumns are filled with model.Sentinel when null
	SentinelColumns = []string{model.ColDirector, model.ColCast, model.ColListedIn, model.ColDescription, model.ColDuration}
	// ModeColumns are filled with the column mode when null
	ModeColumns = []string{model.ColType, model.ColCountry, model.ColRating}
)

// DropNullRequired removes rows with a null value in any required column
func DropNullRequired(t *model.Table) (*model.Table, int, error) {
	return dropNullRequired(t, nil)
}

func dropNullRequired(t *model.Table, rec *recorder) (*model.Table, int, error) {
	indexes, err := columnIndexes(t, RequiredColumns)
	if err != nil {
		return nil, 0, err
	}

	out := t.Filter(func(row model.Row) bool {
		for i, idx := range indexes {
			if !row[idx].Valid {
				rec.dropped(t, row, RequiredColumns[i], model.ReasonNullRequired)
				return false
			}
		}
		return true
	})
	return out, t.Len() - out.Len(), nil
}

// FillSentinel replaces nulls in the given columns with model.Sentinel
func FillSentinel(t *model.Table, columns []string) (*model.Table, error) {
	return fillSentinel(t, columns, nil)
}

func fillSentinel(t *model.Table, columns []string, rec *recorder) (*model.Table, error) {
	fill := make(map[string]string, len(columns))
	for _, col := range columns {
		fill[col] = model.Sentinel
	}
	return fillNulls(t, fill, model.OpSentinelFill, rec)
}

// FillMode replaces nulls in the given columns with each column's mode,
// computed over the current table with nulls excluded. A column without any
// non-null value is filled with model.Sentinel and left out of the returned modes.
func FillMode(t *model.Table, columns []string) (*model.Table, map[string]string, error) {
	return fillMode(t, columns, nil)
}

func fillMode(t *model.Table, columns []string, rec *recorder) (*model.Table, map[string]string, error) {
	modes := make(map[string]string, len(columns))
	fill := make(map[string]string, len(columns))

	// Modes are all computed before any column is filled.
	for _, col := range columns {
		mode, ok, err := Mode(t, col)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			fill[col] = model.Sentinel
			continue
		}
		modes[col] = mode
		fill[col] = mode
	}

	out, err := fillNulls(t, fill, model.OpModeFill, rec)
	if err != nil {
		return nil, nil, err
	}
	return out, modes, nil
}

// fillNulls replaces nulls column by column with the mapped value
func fillNulls(t *model.Table, fill map[string]string, op string, rec *recorder) (*model.Table, error) {
	type target struct {
		idx   int
		value string
	}

	targets := make([]target, 0, len(fill))
	for col, value := range fill {
		idx, ok := t.ColumnIndex(col)
		if !ok {
			return nil, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, col)
		}
		targets = append(targets, target{idx: idx, value: value})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].idx < targets[j].idx })

	columns := t.Columns()
	return t.Map(func(row model.Row) model.Row {
		for _, tg := range targets {
			if row[tg.idx].Valid {
				continue
			}
			rec.changed(t, row, columns[tg.idx], row[tg.idx], tg.value, op, model.ReasonNullValue)
			row[tg.idx] = model.Text(tg.value)
		}
		return row
	}), nil
}

// columnIndexes resolves column positions or fails with model.ErrSchemaMismatch
func columnIndexes(t *model.Table, columns []string) ([]int, error) {
	indexes := make([]int, len(columns))
	for i, col := range columns {
		idx, ok := t.ColumnIndex(col)
		if !ok {
			return nil, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, col)
		}
		indexes[i] = idx
	}
	return indexes, nil
}
