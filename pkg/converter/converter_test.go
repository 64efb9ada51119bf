package converter

import (
	"database/sql"
	"testing"
	"time"

	"github.com/apache/arrow/go/v16/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

func TestMapColumnType(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	tests := []struct {
		dialect Dialect
		kind    model.ColumnKind
		want    string
	}{
		{DialectPostgres, model.KindString, "TEXT"},
		{DialectPostgres, model.KindDate, "DATE"},
		{DialectPostgres, model.KindInteger, "INTEGER"},
		{DialectSnowflake, model.KindDelimitedList, "VARCHAR"},
		{DialectSnowflake, model.KindDate, "DATE"},
		{DialectSnowflake, model.KindInteger, "NUMBER(10,0)"},
		{DialectSQLite, model.KindString, "TEXT"},
		{DialectSQLite, model.KindDate, "TEXT"},
		{DialectSQLite, model.KindInteger, "INTEGER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect)+"/"+tt.kind.String(), func(t *testing.T) {
			got, err := c.MapColumnType(tt.dialect, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := c.MapColumnType(DialectPostgres, model.KindDuration)
	assert.Error(t, err)
	_, err = c.MapColumnType("oracle", model.KindInteger)
	assert.Error(t, err)
}

func TestMapColumnType_Varchar(t *testing.T) {
	c := NewTypeConverterWithConfig(zap.NewNop(), TypeConverterConfig{VarcharLength: 255})

	got, err := c.MapColumnType(DialectPostgres, model.KindString)
	require.NoError(t, err)
	assert.Equal(t, "VARCHAR(255)", got)

	got, err = c.MapColumnType(DialectSQLite, model.KindString)
	require.NoError(t, err)
	assert.Equal(t, "TEXT", got)
}

func TestGenerateColumnDefinitions(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	defs, err := c.GenerateColumnDefinitions(DialectPostgres, c.CleanedSchema())
	require.NoError(t, err)

	require.Len(t, defs, len(model.CleanedColumns()))
	assert.Equal(t, `"show_id" TEXT NOT NULL`, defs[0])
	assert.Equal(t, `"date_added" DATE NOT NULL`, defs[6])
	assert.Equal(t, `"release_year" INTEGER NOT NULL`, defs[7])
	assert.Equal(t, `"duration" INTEGER NULL`, defs[9])
	assert.Equal(t, `"duration_type" TEXT NULL`, defs[10])
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"cast"`, QuoteIdentifier("cast"))
	assert.Equal(t, `"we""ird"`, QuoteIdentifier(`We"ird`))
	assert.Equal(t, `"netflix_schema"."cleaned_data"`, QualifiedName("netflix_schema", "cleaned_data"))
	assert.Equal(t, `"cleaned_data"`, QualifiedName("", "cleaned_data"))
}

func TestArrowSchema(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	schema, err := c.ArrowSchema(c.CleanedSchema())
	require.NoError(t, err)

	require.Equal(t, len(model.CleanedColumns()), schema.NumFields())
	assert.Equal(t, arrow.BinaryTypes.String, schema.Field(0).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Date32, schema.Field(6).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int32, schema.Field(9).Type)
	assert.True(t, schema.Field(9).Nullable)
	assert.False(t, schema.Field(0).Nullable)
}

func TestConvertTitle(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())
	title := model.Title{
		ShowID:      "s1",
		DateAdded:   time.Date(2021, time.September, 25, 0, 0, 0, 0, time.UTC),
		ReleaseYear: 2020,
		Duration:    sql.NullInt32{},
	}

	sqlite := c.ConvertTitle(DialectSQLite, title)
	assert.Equal(t, "2021-09-25", sqlite[6])
	assert.Equal(t, int64(2020), sqlite[7])
	assert.Nil(t, sqlite[9])
	assert.Nil(t, sqlite[10])

	pg := c.ConvertTitle(DialectPostgres, title)
	assert.Equal(t, title.DateAdded, pg[6])
}
