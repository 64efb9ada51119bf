// pkg/converter/values.go
package converter

import (
	"time"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// ConvertTitle returns the values of a title in CleanedSchema order, ready to
// bind for the dialect. Nulls stay nil.
func (c *TypeConverter) ConvertTitle(dialect Dialect, title model.Title) []interface{} {
	values := title.Values()
	for i, v := range values {
		values[i] = c.convertValue(dialect, v)
	}
	return values
}

// ConvertTitles converts every title for the dialect
func (c *TypeConverter) ConvertTitles(dialect Dialect, titles []model.Title) [][]interface{} {
	rows := make([][]interface{}, len(titles))
	for i, title := range titles {
		rows[i] = c.ConvertTitle(dialect, title)
	}
	return rows
}

func (c *TypeConverter) convertValue(dialect Dialect, value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		if dialect == DialectSQLite {
			return v.Format(c.config.DateLayout)
		}
		return v
	case int32:
		// Widen for drivers that only bind int64
		return int64(v)
	default:
		return v
	}
}
