package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

func TestApplyOverrides_DefaultCorrections(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColShowID: "s1", model.ColRating: "74 min"}),
		catalogRow(map[string]string{model.ColShowID: "s5814", model.ColRating: "66 min", model.ColDuration: "NA"}),
		catalogRow(map[string]string{model.ColShowID: "s5542", model.ColRating: "84 min", model.ColDuration: "NA"}),
	)

	out, applied, err := ApplyOverrides(in, DefaultOverrides())
	require.NoError(t, err)

	assert.Equal(t, []string{"s5542", "s5814"}, applied)
	assert.Equal(t, []string{"74 min", "NA", "NA"}, columnValues(t, out, model.ColRating))
	assert.Equal(t, []string{"90 min", "66 min", "84 min"}, columnValues(t, out, model.ColDuration))
}

func TestApplyOverrides_RecordsOperations(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColShowID: "s5795", model.ColRating: "74 min", model.ColDuration: "NA"}),
	)
	rec := newRecorder(model.CleaningContext{RunID: "r"})

	_, _, err := applyOverrides(in, DefaultOverrides(), rec)
	require.NoError(t, err)

	ops := rec.operations()
	require.Len(t, ops, 2)
	for _, op := range ops {
		assert.Equal(t, model.OpOverride, op.CleaningOperation)
		assert.Equal(t, model.ReasonKnownBadRow, op.CleaningReason)
		assert.Equal(t, "s5795", op.RowIdentifier)
	}
}

func TestApplyOverrides_UnknownColumn(t *testing.T) {
	overrides := map[string]Override{
		"s1": {Moves: []FieldMove{{From: model.ColRating, To: "missing"}}},
	}

	_, _, err := ApplyOverrides(catalogTable(t, catalogRow(nil)), overrides)
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
}

func TestApplyOverrides_None(t *testing.T) {
	in := catalogTable(t, catalogRow(nil))

	out, applied, err := ApplyOverrides(in, nil)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, in.Rows(), out.Rows())
}
