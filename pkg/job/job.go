// pkg/job/job.go
package job

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/David-Botos/catalog-cleaner/pkg/config"
	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// Status is the lifecycle state of a run
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job identifies one cleaning run over one input file
type Job struct {
	ID         string    `json:"id"`          // Unique run identifier
	InputPath  string    `json:"input_path"`  // Raw CSV location
	OutputPath string    `json:"output_path"` // Cleaned file location
	Catalog    string    `json:"catalog"`     // catalog.schema.table, empty without a catalog
	Schema     string    `json:"-"`
	Table      string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewJob creates a job for the configured input and outputs
func NewJob(cfg *config.Config) Job {
	j := Job{
		ID:         uuid.New().String(),
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Schema:     cfg.Catalog.Schema,
		Table:      cfg.Catalog.Table,
		CreatedAt:  time.Now(),
	}
	if cfg.Catalog.Driver != config.DriverNone {
		j.Catalog = cfg.Catalog.QualifiedName()
	}
	return j
}

// FullName returns the schema-qualified target table
func (j Job) FullName() string {
	return fmt.Sprintf("%s.%s", j.Schema, j.Table)
}

// CleaningContext stamps cleaning operations with this run
func (j Job) CleaningContext() model.CleaningContext {
	return model.CleaningContext{
		RunID:      j.ID,
		SchemaName: j.Schema,
		TableName:  j.Table,
	}
}

// Result represents the outcome of a run
type Result struct {
	JobID              string        `json:"job_id"`
	Status             Status        `json:"status"`
	RowsRead           int64         `json:"rows_read"`
	RowsCleaned        int64         `json:"rows_cleaned"`
	CatalogRows        int64         `json:"catalog_rows"`
	CleaningOperations int           `json:"cleaning_operations"`
	Category           ErrorCategory `json:"error_category,omitempty"`
	Error              string        `json:"error,omitempty"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	Duration           time.Duration `json:"duration_ns"`
}

// NewResult initializes a result for a job
func NewResult(j Job) *Result {
	return &Result{
		JobID:     j.ID,
		Status:    StatusRunning,
		StartTime: time.Now(),
	}
}

// Complete marks the run as finished and calculates duration
func (r *Result) Complete(err error) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	if err != nil {
		r.Status = StatusFailed
		r.Category = CategorizeError(err)
		r.Error = err.Error()
		return
	}
	r.Status = StatusSucceeded
}

// Success reports whether the run completed without error
func (r *Result) Success() bool {
	return r.Status == StatusSucceeded
}
