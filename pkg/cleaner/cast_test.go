package cleaner

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

func normalizedTable(t *testing.T, rows ...model.Row) *model.Table {
	t.Helper()
	out, _, err := SplitDuration(catalogTable(t, rows...))
	require.NoError(t, err)
	return out
}

func TestCastTitles(t *testing.T) {
	in := normalizedTable(t,
		catalogRow(nil),
		catalogRow(map[string]string{model.ColShowID: "s2", model.ColDuration: "NA", model.ColType: "TV Show"}),
	)

	titles, err := CastTitles(in)
	require.NoError(t, err)
	require.Len(t, titles, 2)

	first := titles[0]
	assert.Equal(t, "s1", first.ShowID)
	assert.Equal(t, time.Date(2021, time.September, 25, 0, 0, 0, 0, time.UTC), first.DateAdded)
	assert.Equal(t, int32(2020), first.ReleaseYear)
	assert.Equal(t, sql.NullInt32{Int32: 90, Valid: true}, first.Duration)
	assert.Equal(t, sql.NullString{String: "min", Valid: true}, first.DurationType)
	assert.Equal(t, "Documentaries", first.ListedIn)

	second := titles[1]
	assert.Equal(t, "TV Show", second.Type)
	assert.False(t, second.Duration.Valid)
	assert.False(t, second.DurationType.Valid)

	values := second.Values()
	require.Len(t, values, len(model.CleanedColumns()))
	assert.Nil(t, values[9])
	assert.Nil(t, values[10])
}

func TestCastTitles_ConversionFailures(t *testing.T) {
	tests := []struct {
		name    string
		changes map[string]string
	}{
		{name: "release year", changes: map[string]string{model.ColReleaseYear: "20x0"}},
		{name: "date", changes: map[string]string{model.ColDateAdded: "2021-09-25"}},
		{name: "null date", changes: map[string]string{model.ColDateAdded: null}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CastTitles(normalizedTable(t, catalogRow(tt.changes)))
			assert.ErrorIs(t, err, model.ErrTypeConversion)
		})
	}
}

func TestCastTitles_RequiresCleanedColumns(t *testing.T) {
	_, err := CastTitles(catalogTable(t))
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
}
