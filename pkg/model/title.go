package model

import (
	"database/sql"
	"time"
)

// Title is one cleaned, typed catalog entry
type Title struct {
	ShowID       string         `db:"show_id" json:"show_id"`
	Type         string         `db:"type" json:"type"`
	Title        string         `db:"title" json:"title"`
	Director     string         `db:"director" json:"director"`
	Cast         string         `db:"cast" json:"cast"`
	Country      string         `db:"country" json:"country"`
	DateAdded    time.Time      `db:"date_added" json:"date_added"`
	ReleaseYear  int32          `db:"release_year" json:"release_year"`
	Rating       string         `db:"rating" json:"rating"`
	Duration     sql.NullInt32  `db:"duration" json:"duration"`
	DurationType sql.NullString `db:"duration_type" json:"duration_type"`
	ListedIn     string         `db:"listed_in" json:"listed_in"`
	Description  string         `db:"description" json:"description"`
}

// Values returns the fields in CleanedColumns order, nulls as nil
func (t Title) Values() []interface{} {
	var duration, durationType interface{}
	if t.Duration.Valid {
		duration = t.Duration.Int32
	}
	if t.DurationType.Valid {
		durationType = t.DurationType.String
	}

	return []interface{}{
		t.ShowID,
		t.Type,
		t.Title,
		t.Director,
		t.Cast,
		t.Country,
		t.DateAdded,
		t.ReleaseYear,
		t.Rating,
		duration,
		durationType,
		t.ListedIn,
		t.Description,
	}
}

// CleanedColumns is the output column order
func CleanedColumns() []string {
	return []string{
		ColShowID,
		ColType,
		ColTitle,
		ColDirector,
		ColCast,
		ColCountry,
		ColDateAdded,
		ColReleaseYear,
		ColRating,
		ColDuration,
		ColDurationType,
		ColListedIn,
		ColDescription,
	}
}
