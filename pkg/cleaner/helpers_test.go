package cleaner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// null marks a field that should be null in a fixture row
const null = "\x00null"

func baseFields() map[string]string {
	return map[string]string{
		model.ColShowID:      "s1",
		model.ColType:        "Movie",
		model.ColTitle:       "Dick Johnson Is Dead",
		model.ColDirector:    "Kirsten Johnson",
		model.ColCast:        "Michael Hilow",
		model.ColCountry:     "United States",
		model.ColDateAdded:   "September 25, 2021",
		model.ColReleaseYear: "2020",
		model.ColRating:      "PG-13",
		model.ColDuration:    "90 min",
		model.ColListedIn:    "Documentaries",
		model.ColDescription: "A film about a father.",
	}
}

// catalogRow builds an input row from the base fields with the given changes
func catalogRow(changes map[string]string) model.Row {
	fields := baseFields()
	for k, v := range changes {
		fields[k] = v
	}

	names := model.InputSchema().Names()
	row := make(model.Row, len(names))
	for i, name := range names {
		if v := fields[name]; v != null {
			row[i] = model.Text(v)
		}
	}
	return row
}

func catalogTable(t *testing.T, rows ...model.Row) *model.Table {
	t.Helper()
	table, err := model.NewTable(model.InputSchema().Names(), rows)
	require.NoError(t, err)
	return table
}

func columnValues(t *testing.T, table *model.Table, column string) []string {
	t.Helper()
	idx, ok := table.ColumnIndex(column)
	require.True(t, ok, "column %s", column)

	out := make([]string, table.Len())
	for i, row := range table.Rows() {
		if row[idx].Valid {
			out[i] = row[idx].String
		} else {
			out[i] = null
		}
	}
	return out
}
