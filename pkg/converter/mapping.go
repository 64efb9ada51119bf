// pkg/converter/mapping.go
package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// Dialect identifies a catalog SQL flavor
type Dialect string

const (
	DialectPostgres  Dialect = "postgres"
	DialectSnowflake Dialect = "snowflake"
	DialectSQLite    Dialect = "sqlite"
)

// MapColumnType returns the SQL type that stores a column kind in a dialect
func (c *TypeConverter) MapColumnType(dialect Dialect, kind model.ColumnKind) (string, error) {
	switch kind {
	case model.KindString, model.KindDelimitedList:
		return c.textType(dialect)
	case model.KindDate:
		switch dialect {
		case DialectPostgres, DialectSnowflake:
			return "DATE", nil
		case DialectSQLite:
			// SQLite has no date storage class; ISO text keeps ordering
			return "TEXT", nil
		}
	case model.KindInteger:
		switch dialect {
		case DialectPostgres, DialectSQLite:
			return "INTEGER", nil
		case DialectSnowflake:
			return "NUMBER(10,0)", nil
		}
	default:
		c.logger.Warn("Column kind has no output type", zap.String("kind", kind.String()))
		return "", fmt.Errorf("no output type for column kind %s", kind)
	}
	return "", fmt.Errorf("unsupported dialect %q", dialect)
}

// textType handles VARCHAR sizing per dialect
func (c *TypeConverter) textType(dialect Dialect) (string, error) {
	switch dialect {
	case DialectPostgres:
		if c.config.VarcharLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.config.VarcharLength), nil
		}
		return "TEXT", nil
	case DialectSnowflake:
		if c.config.VarcharLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.config.VarcharLength), nil
		}
		return "VARCHAR", nil
	case DialectSQLite:
		return "TEXT", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// TimestampType returns the SQL type for an instant in time
func (c *TypeConverter) TimestampType(dialect Dialect) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "TIMESTAMP WITH TIME ZONE", nil
	case DialectSnowflake:
		return "TIMESTAMP_TZ", nil
	case DialectSQLite:
		return "TEXT", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}
