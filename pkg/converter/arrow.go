// pkg/converter/arrow.go
package converter

import (
	"fmt"

	"github.com/apache/arrow/go/v16/arrow"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// MapArrowType returns the Arrow type used to store a column kind in columnar files
func MapArrowType(kind model.ColumnKind) (arrow.DataType, error) {
	switch kind {
	case model.KindString, model.KindDelimitedList:
		return arrow.BinaryTypes.String, nil
	case model.KindDate:
		return arrow.FixedWidthTypes.Date32, nil
	case model.KindInteger:
		return arrow.PrimitiveTypes.Int32, nil
	default:
		return nil, fmt.Errorf("no arrow type for column kind %s", kind)
	}
}

// ArrowSchema builds the Arrow schema of the output columns
func (c *TypeConverter) ArrowSchema(columns []OutputColumn) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(columns))
	for _, col := range columns {
		typ, err := MapArrowType(col.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		fields = append(fields, arrow.Field{Name: col.Name, Type: typ, Nullable: col.Nullable})
	}
	return arrow.NewSchema(fields, nil), nil
}
