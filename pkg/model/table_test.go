package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_RejectsMalformedRows(t *testing.T) {
	_, err := NewTable([]string{"a", "b"}, []Row{{Text("1")}})
	require.Error(t, err)

	_, err = NewTable([]string{"a", "a"}, nil)
	require.Error(t, err)
}

func TestTable_FilterAndMapDoNotMutateInput(t *testing.T) {
	in := MustTable([]string{"a", "b"}, []Row{
		{Text("1"), Text("x")},
		{Text("2"), Null()},
	})

	mapped := in.Map(func(r Row) Row {
		r[1] = Text("changed")
		return r
	})
	filtered := in.Filter(func(r Row) bool { return r[1].Valid })

	assert.Equal(t, "x", in.Rows()[0][1].String)
	assert.False(t, in.Rows()[1][1].Valid)
	assert.Equal(t, "changed", mapped.Rows()[1][1].String)
	assert.Equal(t, 1, filtered.Len())
	assert.Equal(t, 2, in.Len())
}

func TestTable_InsertColumn(t *testing.T) {
	in := MustTable([]string{"a", "b", "c"}, []Row{{Text("1"), Text("2"), Text("3")}})

	out, err := in.InsertColumn("b2", "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "b2", "c"}, out.Columns())
	assert.False(t, out.Value(out.Rows()[0], "b2").Valid)
	assert.Equal(t, "3", out.Value(out.Rows()[0], "c").String)
	assert.Equal(t, []string{"a", "b", "c"}, in.Columns())

	_, err = in.InsertColumn("x", "missing")
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = in.InsertColumn("a", "b")
	assert.Error(t, err)
}

func TestInputSchema(t *testing.T) {
	schema := InputSchema()

	require.Len(t, schema.Columns, 12)
	assert.Equal(t, ColShowID, schema.Names()[0])
	assert.Equal(t, ColDescription, schema.Names()[11])

	col := schema.GetColumnByName(" Date_Added ")
	require.NotNil(t, col)
	assert.Equal(t, KindDate, col.Kind)
	assert.Nil(t, schema.GetColumnByName("unknown"))
}

func TestNullReport_Get(t *testing.T) {
	report := NullReport{TotalRows: 4, Columns: []ColumnNulls{
		{Column: "a", NullCount: 1, NullPct: 25},
		{Column: "b", NullCount: 2, NullPct: 50},
	}}

	b, ok := report.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, b.NullCount)
	assert.Equal(t, 3, report.TotalNulls())

	_, ok = report.Get("c")
	assert.False(t, ok)
}
