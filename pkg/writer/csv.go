// pkg/writer/csv.go
package writer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// CSVWriter writes titles as a CSV file with a header row. Nulls are empty fields.
type CSVWriter struct {
	logger *zap.Logger
}

// Format returns the file format name
func (w *CSVWriter) Format() string {
	return "csv"
}

// WriteFile replaces path with the titles
func (w *CSVWriter) WriteFile(ctx context.Context, path string, titles []model.Title) error {
	err := WriteAtomic(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(model.CleanedColumns()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}

		record := make([]string, len(model.CleanedColumns()))
		for n, title := range titles {
			if n%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			for i, v := range title.Values() {
				record[i] = formatField(v)
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write show_id %s: %w", title.ShowID, err)
			}
		}

		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return err
	}

	w.logger.Info("Wrote csv file", zap.String("path", path), zap.Int("rows", len(titles)))
	return nil
}

func formatField(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}
