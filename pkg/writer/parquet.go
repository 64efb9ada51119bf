// pkg/writer/parquet.go
package writer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow/go/v16/arrow"
	"github.com/apache/arrow/go/v16/arrow/array"
	"github.com/apache/arrow/go/v16/arrow/memory"
	"github.com/apache/arrow/go/v16/parquet"
	"github.com/apache/arrow/go/v16/parquet/compress"
	"github.com/apache/arrow/go/v16/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/converter"
	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// ParquetWriter writes titles as a Snappy compressed Parquet file, one row
// group per chunk
type ParquetWriter struct {
	conv      *converter.TypeConverter
	logger    *zap.Logger
	chunkSize int
}

// Format returns the file format name
func (w *ParquetWriter) Format() string {
	return "parquet"
}

// WriteFile replaces path with the titles
func (w *ParquetWriter) WriteFile(ctx context.Context, path string, titles []model.Title) error {
	start := time.Now()

	schema, err := w.conv.ArrowSchema(w.conv.CleanedSchema())
	if err != nil {
		return fmt.Errorf("failed to build arrow schema: %w", err)
	}

	err = WriteAtomic(path, func(out io.Writer) error {
		props := parquet.NewWriterProperties(
			parquet.WithCompression(compress.Codecs.Snappy),
			parquet.WithMaxRowGroupLength(int64(w.chunkSize)),
		)
		fw, err := pqarrow.NewFileWriter(schema, out, props, pqarrow.DefaultWriterProps())
		if err != nil {
			return fmt.Errorf("failed to create parquet writer: %w", err)
		}

		mem := memory.NewGoAllocator()
		for offset := 0; offset < len(titles); offset += w.chunkSize {
			if err := ctx.Err(); err != nil {
				fw.Close()
				return err
			}

			end := offset + w.chunkSize
			if end > len(titles) {
				end = len(titles)
			}

			rec, err := buildRecord(mem, schema, titles[offset:end])
			if err != nil {
				fw.Close()
				return err
			}
			err = fw.Write(rec)
			rec.Release()
			if err != nil {
				fw.Close()
				return fmt.Errorf("failed to write row group at offset %d: %w", offset, err)
			}
		}

		if err := fw.Close(); err != nil {
			return fmt.Errorf("failed to finish parquet file: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.logger.Info("Wrote parquet file",
		zap.String("path", path),
		zap.Int("rows", len(titles)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// buildRecord converts a chunk of titles into an Arrow record matching schema
func buildRecord(mem memory.Allocator, schema *arrow.Schema, titles []model.Title) (arrow.Record, error) {
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for _, title := range titles {
		for i, v := range title.Values() {
			if err := appendValue(b.Field(i), v); err != nil {
				return nil, fmt.Errorf("show_id %s column %s: %w", title.ShowID, schema.Field(i).Name, err)
			}
		}
	}
	return b.NewRecord(), nil
}

func appendValue(fb array.Builder, v interface{}) error {
	if v == nil {
		fb.AppendNull()
		return nil
	}

	switch b := fb.(type) {
	case *array.StringBuilder:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		b.Append(s)
	case *array.Int32Builder:
		n, ok := v.(int32)
		if !ok {
			return fmt.Errorf("expected int32, got %T", v)
		}
		b.Append(n)
	case *array.Date32Builder:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("expected time, got %T", v)
		}
		b.Append(arrow.Date32FromTime(t))
	default:
		return fmt.Errorf("unsupported arrow builder %T", fb)
	}
	return nil
}
