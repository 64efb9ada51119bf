// pkg/converter/converter.go
package converter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// TypeConverter maps cleaned catalog columns and values to a storage dialect
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig
}

// TypeConverterConfig provides configuration options for type conversion
type TypeConverterConfig struct {
	// VARCHAR length for text columns; 0 keeps the dialect's unbounded text type
	VarcharLength int
	// Layout used where a dialect stores dates as text
	DateLayout string
	// Whether text columns other than the identifiers accept NULL
	NullableText bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() TypeConverterConfig {
	return TypeConverterConfig{
		VarcharLength: 0,
		DateLayout:    "2006-01-02",
		NullableText:  false,
	}
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger) *TypeConverter {
	return NewTypeConverterWithConfig(logger, DefaultConfig())
}

// NewTypeConverterWithConfig creates a TypeConverter with custom configuration
func NewTypeConverterWithConfig(logger *zap.Logger, config TypeConverterConfig) *TypeConverter {
	if config.DateLayout == "" {
		config.DateLayout = DefaultConfig().DateLayout
	}
	return &TypeConverter{
		logger: logger,
		config: config,
	}
}

// OutputColumn describes one column of the cleaned table
type OutputColumn struct {
	Name     string
	Kind     model.ColumnKind
	Nullable bool
}

// CleanedSchema returns the output columns in model.CleanedColumns order
func (c *TypeConverter) CleanedSchema() []OutputColumn {
	columns := make([]OutputColumn, 0, len(model.CleanedColumns()))
	for _, name := range model.CleanedColumns() {
		col := OutputColumn{Name: name, Kind: model.KindString}
		switch name {
		case model.ColDateAdded:
			col.Kind = model.KindDate
		case model.ColReleaseYear:
			col.Kind = model.KindInteger
		case model.ColDuration:
			// The sentinel duration is stored as null magnitude and unit
			col.Kind = model.KindInteger
			col.Nullable = true
		case model.ColDurationType:
			col.Nullable = true
		case model.ColShowID, model.ColTitle:
		default:
			col.Nullable = c.config.NullableText
		}
		columns = append(columns, col)
	}
	return columns
}

// GenerateColumnDefinitions creates column definitions for CREATE TABLE
func (c *TypeConverter) GenerateColumnDefinitions(dialect Dialect, columns []OutputColumn) ([]string, error) {
	definitions := make([]string, 0, len(columns))

	for _, col := range columns {
		sqlType, err := c.MapColumnType(dialect, col.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}

		nullability := "NULL"
		if !col.Nullable {
			nullability = "NOT NULL"
		}

		def := fmt.Sprintf("%s %s %s",
			QuoteIdentifier(col.Name),
			sqlType,
			nullability)

		definitions = append(definitions, def)
	}

	return definitions, nil
}

// ColumnNames returns the quoted names of the columns
func ColumnNames(columns []OutputColumn) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = QuoteIdentifier(col.Name)
	}
	return names
}

// QuoteIdentifier properly quotes and escapes a SQL identifier
func QuoteIdentifier(name string) string {
	// Handle case sensitivity by quoting lowercase table/column names
	return fmt.Sprintf("\"%s\"", strings.ToLower(strings.ReplaceAll(name, "\"", "\"\"")))
}

// QualifiedName returns the quoted schema.table name
func QualifiedName(schema, table string) string {
	if schema == "" {
		return QuoteIdentifier(table)
	}
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(table)
}
