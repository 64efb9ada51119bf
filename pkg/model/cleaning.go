// pkg/model/cleaning.go
package model

import (
	"database/sql"
	"time"
)

// Cleaning operation kinds
const (
	OpRowDrop      = "row_drop"
	OpSentinelFill = "sentinel_fill"
	OpModeFill     = "mode_fill"
	OpOverride     = "override"
	OpModeReplace  = "mode_replace"
)

// Cleaning reasons
const (
	ReasonDuplicateRow      = "duplicate_row"
	ReasonNullRequired      = "null_required_field"
	ReasonNullValue         = "null_value"
	ReasonDatePattern       = "date_pattern_mismatch"
	ReasonMalformedDuration = "malformed_duration"
	ReasonKnownBadRow       = "known_bad_source_row"
	ReasonSentinelRating    = "sentinel_rating"
)

// CleaningOperation represents a single data cleaning operation
type CleaningOperation struct {
	RunID             string         `db:"run_id"`             // Run that performed the operation
	SchemaName        string         `db:"schema_name"`        // Catalog schema name
	TableName         string         `db:"table_name"`         // Target table name
	ColumnName        string         `db:"column_name"`        // Column that was cleaned
	OriginalValue     sql.NullString `db:"original_value"`     // Original value (may be null)
	NewValue          string         `db:"new_value"`          // New value after cleaning
	RowIdentifier     string         `db:"row_identifier"`     // show_id of the row
	CleaningOperation string         `db:"cleaning_operation"` // Type of cleaning performed (e.g., "mode_fill")
	CleaningReason    string         `db:"cleaning_reason"`    // Reason for cleaning (e.g., "null_value")
	CleanedAt         time.Time      `db:"cleaned_at"`         // When the cleaning occurred
}

// CleaningContext identifies where operations are recorded
type CleaningContext struct {
	RunID      string
	SchemaName string
	TableName  string
}
