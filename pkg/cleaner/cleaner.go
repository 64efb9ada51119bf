// pkg/cleaner/cleaner.go
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// Pipeline stage names
const (
	StageDeduplicate = "deduplicate"
	StageProfile     = "profile"
	StageRepair      = "repair"
	StageVerifyNulls = "verify_nulls"
	StageNormalize   = "normalize"
	StageCast        = "cast"
)

// ReportColumns are the columns whose value counts are kept in the report
var ReportColumns = []string{model.ColType, model.ColRating, model.ColDurationType}

// StageError wraps the failure of one pipeline stage
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Options configures a TabularCleaner
type Options struct {
	// Context is stamped on every recorded cleaning operation
	Context model.CleaningContext
	// Overrides are corrections for known-bad rows, keyed by show_id.
	// Nil means DefaultOverrides.
	Overrides map[string]Override
	// WorkerPoolSize bounds the goroutines used for null profiling
	WorkerPoolSize int
}

// Result is the output of one cleaning run
type Result struct {
	Titles     []model.Title
	Table      *model.Table
	Report     *model.CleaningReport
	Operations []model.CleaningOperation
}

// TabularCleaner turns a raw catalog table into typed, validated titles
type TabularCleaner struct {
	logger *zap.Logger
	opts   Options
}

// NewTabularCleaner creates a new TabularCleaner instance
func NewTabularCleaner(logger *zap.Logger, opts Options) (*TabularCleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if opts.Overrides == nil {
		opts.Overrides = DefaultOverrides()
	}
	if opts.WorkerPoolSize <= 0 {
		opts.WorkerPoolSize = 1
	}

	return &TabularCleaner{
		logger: logger.Named("cleaner"),
		opts:   opts,
	}, nil
}

// Clean runs deduplication, null repair, normalization and type casting.
// The input table is never modified.
func (c *TabularCleaner) Clean(ctx context.Context, input *model.Table) (*Result, error) {
	if input == nil {
		return nil, errors.New("input table cannot be nil")
	}

	start := time.Now()
	rec := newRecorder(c.opts.Context)
	report := model.NewCleaningReport()
	report.InputRows = input.Len()

	c.logger.Info("Starting cleaning run",
		zap.String("run_id", c.opts.Context.RunID),
		zap.Int("input_rows", input.Len()),
		zap.Int("columns", len(input.Columns())))

	t := input

	if err := c.stage(ctx, StageDeduplicate, func() error {
		report.Duplicates = FindDuplicates(t)
		t = deduplicate(t, rec)
		report.DuplicatesRemoved = report.InputRows - t.Len()
		c.logger.Info("Removed duplicate rows",
			zap.Int("groups", len(report.Duplicates)),
			zap.Int("removed", report.DuplicatesRemoved))
		return nil
	}); err != nil {
		return nil, err
	}

	if err := c.stage(ctx, StageProfile, func() error {
		var err error
		report.NullsBefore, err = NullProfileConcurrent(ctx, t, c.opts.WorkerPoolSize)
		if err != nil {
			return err
		}
		c.logNulls("Null profile before repair", report.NullsBefore)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := c.stage(ctx, StageRepair, func() error {
		var err error
		t, err = c.repair(t, rec, report)
		return err
	}); err != nil {
		return nil, err
	}

	if err := c.stage(ctx, StageVerifyNulls, func() error {
		var err error
		report.NullsAfter, err = NullProfileConcurrent(ctx, t, c.opts.WorkerPoolSize)
		if err != nil {
			return err
		}
		if remaining := report.NullsAfter.TotalNulls(); remaining > 0 {
			return fmt.Errorf("%d null values remain after repair", remaining)
		}
		c.logNulls("Null profile after repair", report.NullsAfter)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := c.stage(ctx, StageNormalize, func() error {
		var err error
		t, err = c.normalize(ctx, t, rec, report)
		return err
	}); err != nil {
		return nil, err
	}

	var titles []model.Title
	if err := c.stage(ctx, StageCast, func() error {
		var err error
		titles, err = CastTitles(t)
		return err
	}); err != nil {
		return nil, err
	}

	for _, column := range ReportColumns {
		counts, err := ValueCounts(t, column)
		if err != nil {
			return nil, &StageError{Stage: StageCast, Err: err}
		}
		report.ValueCounts[column] = counts
	}

	report.Operations = rec.operationCounts()
	report.OutputRows = len(titles)
	report.Duration = time.Since(start)

	c.logger.Info("Cleaning run complete",
		zap.Int("input_rows", report.InputRows),
		zap.Int("output_rows", report.OutputRows),
		zap.Int("dropped_rows", report.DroppedRows()),
		zap.Int("operations", len(rec.operations())),
		zap.Duration("duration", report.Duration))

	return &Result{
		Titles:     titles,
		Table:      t,
		Report:     report,
		Operations: rec.operations(),
	}, nil
}

// stage runs fn unless the context is done, wrapping any failure
func (c *TabularCleaner) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: name, Err: err}
	}

	c.logger.Debug("Running stage", zap.String("stage", name))
	if err := fn(); err != nil {
		c.logger.Error("Stage failed", zap.String("stage", name), zap.Error(err))
		return &StageError{Stage: name, Err: err}
	}
	return nil
}

func (c *TabularCleaner) repair(t *model.Table, rec *recorder, report *model.CleaningReport) (*model.Table, error) {
	t, dropped, err := dropNullRequired(t, rec)
	if err != nil {
		return nil, err
	}
	report.DroppedNullRequired = dropped
	c.logger.Info("Dropped rows with null required fields",
		zap.Strings("columns", RequiredColumns),
		zap.Int("dropped", dropped))

	t, err = fillSentinel(t, SentinelColumns, rec)
	if err != nil {
		return nil, err
	}

	t, modes, err := fillMode(t, ModeColumns, rec)
	if err != nil {
		return nil, err
	}
	for _, column := range ModeColumns {
		mode, ok := modes[column]
		if !ok {
			c.logger.Warn("Column has no values to take a mode from, filled with sentinel",
				zap.String("column", column))
			continue
		}
		report.ModeValues[column] = mode
		c.logger.Debug("Filled nulls with mode", zap.String("column", column), zap.String("mode", mode))
	}

	return t, nil
}

// normalize applies the per-column rules in order
func (c *TabularCleaner) normalize(ctx context.Context, t *model.Table, rec *recorder, report *model.CleaningReport) (*model.Table, error) {
	steps := []struct {
		name string
		run  func(*model.Table) (*model.Table, error)
	}{
		{"show_id check", func(t *model.Table) (*model.Table, error) {
			invalid, err := CountInvalidShowIDs(t)
			if err != nil {
				return nil, err
			}
			report.InvalidShowIDs = invalid
			if invalid > 0 {
				c.logger.Warn("Rows with unexpected show_id format", zap.Int("count", invalid))
			}
			return t, nil
		}},
		{"title trim", trimStep(model.ColTitle)},
		{"country list", listStep(model.ColCountry)},
		{"director list", listStep(model.ColDirector)},
		{"date_added trim", trimStep(model.ColDateAdded)},
		{"date gate", func(t *model.Table) (*model.Table, error) {
			out, dropped, err := dateGate(t, rec)
			if err != nil {
				return nil, err
			}
			report.DroppedDatePattern = dropped
			if dropped > 0 {
				c.logger.Warn("Dropped rows with invalid date_added", zap.Int("dropped", dropped))
			}
			return out, nil
		}},
		{"release_year trim", trimStep(model.ColReleaseYear)},
		{"rating trim", trimStep(model.ColRating)},
		{"overrides", func(t *model.Table) (*model.Table, error) {
			out, applied, err := applyOverrides(t, c.opts.Overrides, rec)
			if err != nil {
				return nil, err
			}
			report.OverridesApplied = applied
			for _, id := range applied {
				c.logger.Info("Applied override",
					zap.String("show_id", id),
					zap.String("reason", c.opts.Overrides[id].Reason))
			}
			return out, nil
		}},
		{"rating sentinel", func(t *model.Table) (*model.Table, error) {
			out, mode, ok, err := replaceSentinelRating(t, rec)
			if err != nil {
				return nil, err
			}
			if !ok {
				c.logger.Warn("No real rating value, sentinel ratings kept")
				return out, nil
			}
			c.logger.Debug("Replaced sentinel ratings with mode", zap.String("mode", mode))
			return out, nil
		}},
		{"duration trim", trimStep(model.ColDuration)},
		{"duration split", func(t *model.Table) (*model.Table, error) {
			out, dropped, err := splitDuration(t, rec)
			if err != nil {
				return nil, err
			}
			report.DroppedDuration = dropped
			if dropped > 0 {
				c.logger.Warn("Dropped rows with malformed duration", zap.Int("dropped", dropped))
			}
			return out, nil
		}},
		{"listed_in list", listStep(model.ColListedIn)},
		{"description trim", trimStep(model.ColDescription)},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := step.run(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
		t = out
	}
	return t, nil
}

func (c *TabularCleaner) logNulls(msg string, report model.NullReport) {
	fields := []zap.Field{zap.Int("rows", report.TotalRows), zap.Int("nulls", report.TotalNulls())}
	for _, col := range report.Columns {
		if col.NullCount > 0 {
			fields = append(fields, zap.Float64(col.Column, col.NullPct))
		}
	}
	c.logger.Info(msg, fields...)
}

func trimStep(column string) func(*model.Table) (*model.Table, error) {
	return func(t *model.Table) (*model.Table, error) {
		return TrimColumn(t, column)
	}
}

func listStep(column string) func(*model.Table) (*model.Table, error) {
	return func(t *model.Table) (*model.Table, error) {
		return NormalizeListColumn(t, column)
	}
}
