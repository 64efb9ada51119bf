// pkg/writer/writer.go
package writer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/converter"
	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// FileWriter writes cleaned titles to a file in overwrite mode
type FileWriter interface {
	// Format returns the file format name
	Format() string
	// WriteFile replaces path with the titles, whole file or nothing
	WriteFile(ctx context.Context, path string, titles []model.Title) error
}

// New returns the writer for a format ("parquet" or "csv")
func New(format string, conv *converter.TypeConverter, logger *zap.Logger, chunkSize int) (FileWriter, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if chunkSize <= 0 {
		chunkSize = 5000
	}

	switch format {
	case "parquet":
		if conv == nil {
			return nil, fmt.Errorf("type converter cannot be nil")
		}
		return &ParquetWriter{conv: conv, logger: logger.Named("parquet-writer"), chunkSize: chunkSize}, nil
	case "csv":
		return &CSVWriter{logger: logger.Named("csv-writer")}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteAtomic streams fn into a temp file next to path, then renames it into
// place. On failure the destination is left as it was.
func WriteAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = fn(buf); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
