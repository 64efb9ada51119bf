package cleaner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

func TestNullProfile_EmptyTable(t *testing.T) {
	report, err := NullProfile(catalogTable(t))
	require.NoError(t, err)

	assert.Equal(t, 0, report.TotalRows)
	require.Len(t, report.Columns, len(model.InputSchema().Columns))
	for _, col := range report.Columns {
		assert.Equal(t, 0, col.NullCount, col.Column)
		assert.Equal(t, 0.0, col.NullPct, col.Column)
	}
}

func TestNullProfile_Percentages(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColDirector: null}),
		catalogRow(map[string]string{model.ColShowID: "s2"}),
		catalogRow(map[string]string{model.ColShowID: "s3", model.ColDirector: null, model.ColCast: null}),
	)

	report, err := NullProfile(in, model.ColDirector, model.ColCast, model.ColTitle)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, []model.ColumnNulls{
		{Column: model.ColDirector, NullCount: 2, NullPct: 66.67},
		{Column: model.ColCast, NullCount: 1, NullPct: 33.33},
		{Column: model.ColTitle, NullCount: 0, NullPct: 0},
	}, report.Columns)
	assert.Equal(t, 3, report.TotalNulls())
}

func TestNullProfileConcurrent_MatchesSequential(t *testing.T) {
	var rows []model.Row
	for i := 0; i < 50; i++ {
		changes := map[string]string{}
		if i%3 == 0 {
			changes[model.ColCountry] = null
		}
		if i%7 == 0 {
			changes[model.ColRating] = null
		}
		rows = append(rows, catalogRow(changes))
	}
	in := catalogTable(t, rows...)

	sequential, err := NullProfile(in)
	require.NoError(t, err)
	concurrent, err := NullProfileConcurrent(context.Background(), in, 4)
	require.NoError(t, err)

	assert.Equal(t, sequential, concurrent)
	assert.Equal(t, model.InputSchema().Names()[0], concurrent.Columns[0].Column)
}

func TestNullProfile_UnknownColumn(t *testing.T) {
	_, err := NullProfile(catalogTable(t), "nope")
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
}

func TestNullProfileConcurrent_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NullProfileConcurrent(ctx, catalogTable(t, catalogRow(nil)), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValueCounts_OrderAndNulls(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColRating: "TV-MA"}),
		catalogRow(map[string]string{model.ColRating: "PG"}),
		catalogRow(map[string]string{model.ColRating: null}),
		catalogRow(map[string]string{model.ColRating: "TV-MA"}),
		catalogRow(map[string]string{model.ColRating: "G"}),
		catalogRow(map[string]string{model.ColRating: "PG"}),
		catalogRow(map[string]string{model.ColRating: null}),
	)

	counts, err := ValueCounts(in, model.ColRating)
	require.NoError(t, err)

	assert.Equal(t, []model.ValueCount{
		{Value: "PG", Count: 2},
		{Value: "TV-MA", Count: 2},
		{Null: true, Count: 2},
		{Value: "G", Count: 1},
	}, counts)
}

func TestMode(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColRating: "NA"}),
		catalogRow(map[string]string{model.ColRating: "NA"}),
		catalogRow(map[string]string{model.ColRating: "TV-PG"}),
		catalogRow(map[string]string{model.ColRating: "R"}),
		catalogRow(map[string]string{model.ColRating: null}),
		catalogRow(map[string]string{model.ColRating: null}),
		catalogRow(map[string]string{model.ColRating: null}),
	)

	mode, ok, err := Mode(in, model.ColRating)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "NA", mode)

	mode, ok, err = Mode(in, model.ColRating, model.Sentinel)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "R", mode, "ties go to the smallest value")

	_, ok, err = Mode(catalogTable(t), model.ColRating)
	require.NoError(t, err)
	assert.False(t, ok)
}
