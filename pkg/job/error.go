// pkg/job/error.go
package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/David-Botos/catalog-cleaner/pkg/cleaner"
	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// Run stage names outside the cleaning pipeline
const (
	StageRead        = "read"
	StageClean       = "clean"
	StageWrite       = "write"
	StageCatalog     = "catalog"
	StageAudit       = "audit"
	StageVerify      = "verify"
	StageWriteReport = "report"
)

// ErrVerification means written output does not match the cleaned data
var ErrVerification = errors.New("verification failed")

// ErrorCategory defines categories of run failures
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	ErrorCategoryInput
	ErrorCategorySchema
	ErrorCategoryConversion
	ErrorCategoryStorage
	ErrorCategoryCatalog
	ErrorCategoryVerification
	ErrorCategoryCancelled
	ErrorCategoryUnknown
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "none"
	case ErrorCategoryInput:
		return "input"
	case ErrorCategorySchema:
		return "schema"
	case ErrorCategoryConversion:
		return "conversion"
	case ErrorCategoryStorage:
		return "storage"
	case ErrorCategoryCatalog:
		return "catalog"
	case ErrorCategoryVerification:
		return "verification"
	case ErrorCategoryCancelled:
		return "cancelled"
	case ErrorCategoryUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("unknown(%d)", int(ec))
	}
}

// MarshalText encodes the category by name
func (ec ErrorCategory) MarshalText() ([]byte, error) {
	return []byte(ec.String()), nil
}

// ExitCode maps a category to a process exit status
func (ec ErrorCategory) ExitCode() int {
	if ec == ErrorCategoryNone {
		return 0
	}
	return 1 + int(ec)
}

// StageError wraps the failure of one run stage
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// wrapStage attaches the stage name to err
func wrapStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// CategorizeError determines the category of an error. Sentinel errors win
// over the stage the error came from.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCategoryCancelled
	case errors.Is(err, model.ErrInputNotFound), errors.Is(err, model.ErrEmptyInput):
		return ErrorCategoryInput
	case errors.Is(err, model.ErrSchemaMismatch):
		return ErrorCategorySchema
	case errors.Is(err, model.ErrTypeConversion):
		return ErrorCategoryConversion
	case errors.Is(err, ErrVerification):
		return ErrorCategoryVerification
	}

	var cleanErr *cleaner.StageError
	if errors.As(err, &cleanErr) && cleanErr.Stage == cleaner.StageVerifyNulls {
		return ErrorCategoryVerification
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case StageRead:
			return ErrorCategoryInput
		case StageWrite, StageWriteReport:
			return ErrorCategoryStorage
		case StageCatalog, StageAudit:
			return ErrorCategoryCatalog
		case StageVerify:
			return ErrorCategoryVerification
		case StageClean:
			return ErrorCategoryConversion
		}
	}

	return ErrorCategoryUnknown
}
