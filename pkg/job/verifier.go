// pkg/job/verifier.go
package job

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apache/arrow/go/v16/parquet/file"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/config"
)

// RowCounter counts the rows of a catalog table
type RowCounter interface {
	CountRows(ctx context.Context, schema, table string) (int64, error)
}

// VerificationReport contains the result of one output check
type VerificationReport struct {
	Target           string        `json:"target"`
	VerificationTime time.Time     `json:"verification_time"`
	ExpectedRows     int64         `json:"expected_rows"`
	ActualRows       int64         `json:"actual_rows"`
	RowCountMatches  bool          `json:"row_count_matches"`
	Duration         time.Duration `json:"duration_ns"`
}

// Verifier checks written outputs against the cleaned row count
type Verifier struct {
	logger  *zap.Logger
	timeout time.Duration
}

// NewVerifier creates a new verifier
func NewVerifier(logger *zap.Logger) *Verifier {
	return &Verifier{
		logger:  logger.Named("verifier"),
		timeout: time.Minute * 5, // Default 5-minute timeout
	}
}

// WithTimeout sets a custom timeout for catalog queries
func (v *Verifier) WithTimeout(timeout time.Duration) *Verifier {
	v.timeout = timeout
	return v
}

// VerifyRowCount compares the catalog table row count with expected. A
// mismatch returns the report together with an ErrVerification error.
func (v *Verifier) VerifyRowCount(ctx context.Context, counter RowCounter, schema, table string, expected int64) (*VerificationReport, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	actual, err := counter.CountRows(ctx, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows of %s.%s: %w", schema, table, err)
	}

	return v.compare(fmt.Sprintf("%s.%s", schema, table), expected, actual, start)
}

// VerifyFile counts the rows of a written output file
func (v *Verifier) VerifyFile(format, path string, expected int64) (*VerificationReport, error) {
	start := time.Now()

	var (
		actual int64
		err    error
	)
	switch format {
	case config.FormatParquet:
		actual, err = countParquetRows(path)
	case config.FormatCSV:
		actual, err = countCSVRows(path)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return v.compare(path, expected, actual, start)
}

func (v *Verifier) compare(target string, expected, actual int64, start time.Time) (*VerificationReport, error) {
	report := &VerificationReport{
		Target:           target,
		VerificationTime: start,
		ExpectedRows:     expected,
		ActualRows:       actual,
		RowCountMatches:  expected == actual,
		Duration:         time.Since(start),
	}

	if !report.RowCountMatches {
		v.logger.Warn("Row count mismatch",
			zap.String("target", target),
			zap.Int64("expected", expected),
			zap.Int64("actual", actual),
			zap.Int64("difference", expected-actual))
		return report, fmt.Errorf("%w: %s has %d rows, expected %d", ErrVerification, target, actual, expected)
	}

	v.logger.Info("Row count verification successful",
		zap.String("target", target),
		zap.Int64("count", actual))
	return report, nil
}

// countParquetRows reads the row count from the file footer
func countParquetRows(path string) (int64, error) {
	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return 0, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}
	defer rdr.Close()

	return rdr.NumRows(), nil
}

// countCSVRows counts records after the header
func countCSVRows(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open csv file %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: %s has no header", ErrVerification, path)
		}
		return 0, err
	}

	var n int64
	for {
		_, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("error reading record %d of %s: %w", n+1, path, err)
		}
		n++
	}
}
