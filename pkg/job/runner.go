// pkg/job/runner.go
package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/cleaner"
	"github.com/David-Botos/catalog-cleaner/pkg/config"
	"github.com/David-Botos/catalog-cleaner/pkg/connector"
	"github.com/David-Botos/catalog-cleaner/pkg/converter"
	"github.com/David-Botos/catalog-cleaner/pkg/model"
	"github.com/David-Botos/catalog-cleaner/pkg/reader"
	"github.com/David-Botos/catalog-cleaner/pkg/writer"
)

// RunReport is the outcome of a run, written as JSON to REPORT_PATH
type RunReport struct {
	Job          Job                   `json:"job"`
	Result       *Result               `json:"result"`
	Cleaning     *model.CleaningReport `json:"cleaning,omitempty"`
	Metrics      *Metrics              `json:"metrics"`
	Verification []*VerificationReport `json:"verification,omitempty"`
}

// Runner executes one cleaning run: read, clean, write the file, publish to
// the catalog, record the audit trail and verify
type Runner struct {
	cfg       *config.Config
	logger    *zap.Logger
	conv      *converter.TypeConverter
	factory   *connector.ConnectorFactory
	verifier  *Verifier
	overrides map[string]cleaner.Override
}

// NewRunner creates a new Runner instance
func NewRunner(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Runner{
		cfg:      cfg,
		logger:   logger.Named("runner"),
		conv:     converter.NewTypeConverter(logger),
		factory:  connector.NewConnectorFactory(cfg, logger),
		verifier: NewVerifier(logger),
	}, nil
}

// WithOverrides replaces the known-bad row corrections used by the cleaner
func (r *Runner) WithOverrides(overrides map[string]cleaner.Override) *Runner {
	r.overrides = overrides
	return r
}

// Run executes the job. The report is returned even when the run fails.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	j := NewJob(r.cfg)
	metrics := NewMetrics(r.logger)
	report := &RunReport{
		Job:     j,
		Result:  NewResult(j),
		Metrics: metrics,
	}
	logger := r.logger.With(zap.String("run_id", j.ID))

	logger.Info("Starting cleaning run",
		zap.String("input", j.InputPath),
		zap.String("output", j.OutputPath),
		zap.String("format", r.cfg.OutputFormat),
		zap.String("catalog", j.Catalog))

	err := r.run(ctx, logger, j, report)
	metrics.Complete()
	report.Result.Complete(err)

	if r.cfg.ReportPath != "" {
		if werr := r.writeReport(report); werr != nil {
			logger.Error("Failed to write run report", zap.String("path", r.cfg.ReportPath), zap.Error(werr))
			if err == nil {
				err = wrapStage(StageWriteReport, werr)
				report.Result.Complete(err)
			}
		}
	}

	if err != nil {
		logger.Error("Cleaning run failed",
			zap.String("category", report.Result.Category.String()),
			zap.Duration("duration", report.Result.Duration),
			zap.Error(err))
		return report, err
	}

	logger.Info("Cleaning run succeeded",
		zap.Int64("rows_read", report.Result.RowsRead),
		zap.Int64("rows_cleaned", report.Result.RowsCleaned),
		zap.Int64("catalog_rows", report.Result.CatalogRows),
		zap.Int("operations", report.Result.CleaningOperations),
		zap.Duration("duration", report.Result.Duration))
	logger.Debug(metrics.GenerateMetricsReport())

	return report, nil
}

func (r *Runner) run(ctx context.Context, logger *zap.Logger, j Job, report *RunReport) error {
	metrics := report.Metrics
	result := report.Result

	var table *model.Table
	if err := r.stage(ctx, metrics, StageRead, func() (int64, error) {
		var err error
		table, err = reader.Load(r.cfg.InputPath, r.cfg.InputCompression, model.InputSchema())
		if err != nil {
			return 0, err
		}
		return int64(table.Len()), nil
	}); err != nil {
		return err
	}
	result.RowsRead = int64(table.Len())
	metrics.RowsRead = result.RowsRead

	var cleaned *cleaner.Result
	if err := r.stage(ctx, metrics, StageClean, func() (int64, error) {
		tc, err := cleaner.NewTabularCleaner(logger, cleaner.Options{
			Context:        j.CleaningContext(),
			Overrides:      r.overrides,
			WorkerPoolSize: r.cfg.WorkerPoolSize,
		})
		if err != nil {
			return 0, err
		}
		cleaned, err = tc.Clean(ctx, table)
		if err != nil {
			return 0, err
		}
		return int64(len(cleaned.Titles)), nil
	}); err != nil {
		return err
	}
	report.Cleaning = cleaned.Report
	result.RowsCleaned = int64(len(cleaned.Titles))
	result.CleaningOperations = len(cleaned.Operations)
	metrics.RowsCleaned = result.RowsCleaned

	if err := r.stage(ctx, metrics, StageWrite, func() (int64, error) {
		fw, err := writer.New(r.cfg.OutputFormat, r.conv, logger, r.cfg.ChunkSize)
		if err != nil {
			return 0, err
		}
		if err := fw.WriteFile(ctx, r.cfg.OutputPath, cleaned.Titles); err != nil {
			return 0, err
		}
		if info, err := os.Stat(r.cfg.OutputPath); err == nil {
			metrics.BytesWritten = info.Size()
		}
		return result.RowsCleaned, nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, metrics, StageVerify, func() (int64, error) {
		vr, err := r.verifier.VerifyFile(r.cfg.OutputFormat, r.cfg.OutputPath, result.RowsCleaned)
		if vr != nil {
			report.Verification = append(report.Verification, vr)
		}
		if err != nil {
			return 0, err
		}
		return vr.ActualRows, nil
	}); err != nil {
		return err
	}

	if r.cfg.Catalog.Driver == config.DriverNone {
		return nil
	}
	return r.publish(ctx, logger, j, cleaned, report)
}

// publish replaces the catalog table, records the audit trail and verifies
// the catalog row count
func (r *Runner) publish(ctx context.Context, logger *zap.Logger, j Job, cleaned *cleaner.Result, report *RunReport) error {
	metrics := report.Metrics
	result := report.Result

	var (
		conn    connector.DatabaseConnector
		catalog *connector.Catalog
	)
	defer func() {
		if conn == nil {
			return
		}
		if err := conn.Close(); err != nil {
			logger.Warn("Failed to close catalog connection", zap.Error(err))
		}
	}()

	if err := r.stage(ctx, metrics, StageCatalog, func() (int64, error) {
		var err error
		conn, err = r.factory.CreateCatalogConnector(ctx)
		if err != nil {
			return 0, err
		}
		if conn == nil {
			return 0, errors.New("no catalog connector for the configured driver")
		}
		if err := conn.Validate(ctx); err != nil {
			return 0, fmt.Errorf("catalog validation failed: %w", err)
		}

		catalog, err = connector.NewCatalog(conn, r.conv, logger)
		if err != nil {
			return 0, err
		}
		n, err := catalog.ReplaceTable(ctx, j.Schema, j.Table, cleaned.Titles)
		if err != nil {
			return 0, err
		}
		return n, nil
	}); err != nil {
		return err
	}
	if s, ok := metrics.Stage(StageCatalog); ok {
		result.CatalogRows = s.Rows
		metrics.CatalogRows = s.Rows
	}

	if r.cfg.AuditEnabled {
		if err := r.stage(ctx, metrics, StageAudit, func() (int64, error) {
			audit, err := connector.NewAuditTrail(conn, r.conv, logger, r.cfg.ChunkSize)
			if err != nil {
				return 0, err
			}
			if err := audit.EnsureTable(ctx, j.Schema); err != nil {
				return 0, err
			}
			if err := audit.RecordOperations(ctx, j.Schema, cleaned.Operations); err != nil {
				return 0, err
			}
			return int64(len(cleaned.Operations)), nil
		}); err != nil {
			return err
		}
		metrics.AuditRows = int64(len(cleaned.Operations))
	}

	return r.stage(ctx, metrics, StageVerify, func() (int64, error) {
		vr, err := r.verifier.VerifyRowCount(ctx, catalog, j.Schema, j.Table, result.RowsCleaned)
		if vr != nil {
			report.Verification = append(report.Verification, vr)
		}
		if err != nil {
			return 0, err
		}
		return vr.ActualRows, nil
	})
}

// stage runs fn unless the context is done, timing it and wrapping any failure
func (r *Runner) stage(ctx context.Context, metrics *Metrics, name string, fn func() (int64, error)) error {
	done := metrics.StartStage(name)

	if err := ctx.Err(); err != nil {
		err = wrapStage(name, err)
		done(0, err)
		return err
	}

	rows, err := fn()
	err = wrapStage(name, err)
	done(rows, err)
	return err
}

// writeReport writes the run report as indented JSON, replacing any
// previous report
func (r *Runner) writeReport(report *RunReport) error {
	return writer.WriteAtomic(r.cfg.ReportPath, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode run report: %w", err)
		}
		return nil
	})
}
