package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

func TestDropNullRequired(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColShowID: "s1"}),
		catalogRow(map[string]string{model.ColShowID: null}),
		catalogRow(map[string]string{model.ColShowID: "s3", model.ColTitle: null}),
		catalogRow(map[string]string{model.ColShowID: "s4", model.ColDateAdded: null}),
		catalogRow(map[string]string{model.ColShowID: "s5", model.ColReleaseYear: null}),
		catalogRow(map[string]string{model.ColShowID: "s6", model.ColDirector: null}),
	)

	out, dropped, err := DropNullRequired(in)
	require.NoError(t, err)

	assert.Equal(t, 4, dropped)
	assert.Equal(t, []string{"s1", "s6"}, columnValues(t, out, model.ColShowID))
}

func TestFillSentinel(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColDirector: null, model.ColDuration: null}),
		catalogRow(map[string]string{model.ColShowID: "s2", model.ColCast: null}),
	)

	out, err := FillSentinel(in, SentinelColumns)
	require.NoError(t, err)

	assert.Equal(t, []string{"NA", "Kirsten Johnson"}, columnValues(t, out, model.ColDirector))
	assert.Equal(t, []string{"NA", "90 min"}, columnValues(t, out, model.ColDuration))
	assert.Equal(t, []string{"Michael Hilow", "NA"}, columnValues(t, out, model.ColCast))
	assert.False(t, in.Rows()[0][3].Valid, "input must stay untouched")
}

func TestFillMode_UsesTableAfterRowDrop(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColShowID: "s1", model.ColCountry: "India", model.ColTitle: null}),
		catalogRow(map[string]string{model.ColShowID: "s2", model.ColCountry: "India", model.ColTitle: null}),
		catalogRow(map[string]string{model.ColShowID: "s3", model.ColCountry: "United States"}),
		catalogRow(map[string]string{model.ColShowID: "s4", model.ColCountry: null}),
	)

	kept, _, err := DropNullRequired(in)
	require.NoError(t, err)
	out, modes, err := FillMode(kept, ModeColumns)
	require.NoError(t, err)

	assert.Equal(t, []string{"United States", "United States"}, columnValues(t, out, model.ColCountry))
	assert.Equal(t, "United States", modes[model.ColCountry])
	assert.Equal(t, "Movie", modes[model.ColType])
	assert.Equal(t, "PG-13", modes[model.ColRating])
}

func TestFillMode_AllNullColumn(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColType: null}),
		catalogRow(map[string]string{model.ColShowID: "s2", model.ColType: null}),
	)

	out, modes, err := FillMode(in, []string{model.ColType})
	require.NoError(t, err)

	assert.Equal(t, []string{"NA", "NA"}, columnValues(t, out, model.ColType))
	assert.NotContains(t, modes, model.ColType)
}

func TestFillMode_UnknownColumn(t *testing.T) {
	_, _, err := FillMode(catalogTable(t), []string{"missing"})
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
}

func TestRepair_RecordsOperations(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColShowID: "s1", model.ColDirector: null}),
		catalogRow(map[string]string{model.ColShowID: "s2", model.ColTitle: null}),
		catalogRow(map[string]string{model.ColShowID: "s3", model.ColRating: null}),
	)
	rec := newRecorder(model.CleaningContext{RunID: "run-1", SchemaName: "netflix_schema", TableName: "cleaned_data"})

	out, _, err := dropNullRequired(in, rec)
	require.NoError(t, err)
	out, err = fillSentinel(out, SentinelColumns, rec)
	require.NoError(t, err)
	_, _, err = fillMode(out, ModeColumns, rec)
	require.NoError(t, err)

	ops := rec.operations()
	require.Len(t, ops, 3)

	assert.Equal(t, model.OpRowDrop, ops[0].CleaningOperation)
	assert.Equal(t, model.ReasonNullRequired, ops[0].CleaningReason)
	assert.Equal(t, "s2", ops[0].RowIdentifier)
	assert.Equal(t, model.ColTitle, ops[0].ColumnName)

	assert.Equal(t, model.OpSentinelFill, ops[1].CleaningOperation)
	assert.Equal(t, model.ColDirector, ops[1].ColumnName)
	assert.False(t, ops[1].OriginalValue.Valid)
	assert.Equal(t, "NA", ops[1].NewValue)

	assert.Equal(t, model.OpModeFill, ops[2].CleaningOperation)
	assert.Equal(t, "s3", ops[2].RowIdentifier)
	assert.Equal(t, "PG-13", ops[2].NewValue)

	for _, op := range ops {
		assert.Equal(t, "run-1", op.RunID)
		assert.Equal(t, "netflix_schema", op.SchemaName)
		assert.Equal(t, "cleaned_data", op.TableName)
		assert.False(t, op.CleanedAt.IsZero())
	}

	assert.Equal(t, map[string]int{
		model.OpRowDrop:      1,
		model.OpSentinelFill: 1,
		model.OpModeFill:     1,
	}, rec.operationCounts())
}
