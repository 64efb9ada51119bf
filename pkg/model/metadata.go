// pkg/model/metadata.go
package model

import "strings"

// Column names of the catalog dataset
const (
	ColShowID       = "show_id"
	ColType         = "type"
	ColTitle        = "title"
	ColDirector     = "director"
	ColCast         = "cast"
	ColCountry      = "country"
	ColDateAdded    = "date_added"
	ColReleaseYear  = "release_year"
	ColRating       = "rating"
	ColDuration     = "duration"
	ColListedIn     = "listed_in"
	ColDescription  = "description"
	ColDurationType = "duration_type"
)

// Sentinel marks an intentionally unknown field
const Sentinel = "NA"

// ColumnKind describes the semantic type carried by a text column
type ColumnKind int

const (
	KindString ColumnKind = iota
	KindDelimitedList
	KindDate
	KindInteger
	KindDuration
)

// String returns a string representation of the column kind
func (k ColumnKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDelimitedList:
		return "delimited-list"
	case KindDate:
		return "date"
	case KindInteger:
		return "integer"
	case KindDuration:
		return "duration"
	default:
		return "unknown"
	}
}

// Column represents metadata about a dataset column
type Column struct {
	Name string     // Column name as it appears in the CSV header
	Kind ColumnKind // Semantic type of the text value
}

// ColumnSchema is the fixed ordered list of expected input columns
type ColumnSchema struct {
	Columns []Column
}

// InputSchema returns the 12-column schema of the raw catalog dataset
func InputSchema() ColumnSchema {
	return ColumnSchema{Columns: []Column{
		{Name: ColShowID, Kind: KindString},
		{Name: ColType, Kind: KindString},
		{Name: ColTitle, Kind: KindString},
		{Name: ColDirector, Kind: KindDelimitedList},
		{Name: ColCast, Kind: KindDelimitedList},
		{Name: ColCountry, Kind: KindDelimitedList},
		{Name: ColDateAdded, Kind: KindDate},
		{Name: ColReleaseYear, Kind: KindInteger},
		{Name: ColRating, Kind: KindString},
		{Name: ColDuration, Kind: KindDuration},
		{Name: ColListedIn, Kind: KindDelimitedList},
		{Name: ColDescription, Kind: KindString},
	}}
}

// Names returns the column names in schema order
func (s ColumnSchema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// GetColumnByName returns a column by name (case-insensitive)
// Returns nil if column not found
func (s ColumnSchema) GetColumnByName(name string) *Column {
	normalizedName := normalizeColumnName(name)
	for i, col := range s.Columns {
		if normalizeColumnName(col.Name) == normalizedName {
			return &s.Columns[i]
		}
	}
	return nil
}

func normalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
