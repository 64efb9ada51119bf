package model

import "time"

// ColumnNulls is the null profile of one column
type ColumnNulls struct {
	Column    string  `json:"column"`
	NullCount int     `json:"null_count"`
	NullPct   float64 `json:"null_pct"`
}

// NullReport is the null profile of a table, ordered as the profiled columns
type NullReport struct {
	TotalRows int           `json:"total_rows"`
	Columns   []ColumnNulls `json:"columns"`
}

// Get returns the profile of a column
func (r NullReport) Get(column string) (ColumnNulls, bool) {
	for _, c := range r.Columns {
		if c.Column == column {
			return c, true
		}
	}
	return ColumnNulls{}, false
}

// TotalNulls returns the number of null values across all profiled columns
func (r NullReport) TotalNulls() int {
	total := 0
	for _, c := range r.Columns {
		total += c.NullCount
	}
	return total
}

// ValueCount is the frequency of one value in a column
type ValueCount struct {
	Value string `json:"value"`
	Null  bool   `json:"null,omitempty"`
	Count int    `json:"count"`
}

// DuplicateGroup is a full row that occurs more than once
type DuplicateGroup struct {
	ShowID string `json:"show_id"`
	Count  int    `json:"count"`
}

// CleaningReport summarizes one pipeline run
type CleaningReport struct {
	InputRows           int                     `json:"input_rows"`
	Duplicates          []DuplicateGroup        `json:"duplicates,omitempty"`
	DuplicatesRemoved   int                     `json:"duplicates_removed"`
	NullsBefore         NullReport              `json:"nulls_before"`
	NullsAfter          NullReport              `json:"nulls_after"`
	DroppedNullRequired int                     `json:"dropped_null_required"`
	DroppedDatePattern  int                     `json:"dropped_date_pattern"`
	DroppedDuration     int                     `json:"dropped_duration"`
	InvalidShowIDs      int                     `json:"invalid_show_ids"`
	ModeValues          map[string]string       `json:"mode_values"`
	OverridesApplied    []string                `json:"overrides_applied,omitempty"`
	ValueCounts         map[string][]ValueCount `json:"value_counts,omitempty"`
	Operations          map[string]int          `json:"operations"`
	OutputRows          int                     `json:"output_rows"`
	Duration            time.Duration           `json:"duration_ns"`
}

// NewCleaningReport creates an empty report
func NewCleaningReport() *CleaningReport {
	return &CleaningReport{
		ModeValues:  make(map[string]string),
		ValueCounts: make(map[string][]ValueCount),
		Operations:  make(map[string]int),
	}
}

// DroppedRows returns the number of rows removed by any stage
func (r *CleaningReport) DroppedRows() int {
	return r.DuplicatesRemoved + r.DroppedNullRequired + r.DroppedDatePattern + r.DroppedDuration
}
