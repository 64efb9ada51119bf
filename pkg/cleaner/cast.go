package cleaner

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// CastTitles converts a normalized table into typed titles.
// Any value that does not parse is an ErrTypeConversion.
func CastTitles(t *model.Table) ([]model.Title, error) {
	idx := make(map[string]int, len(model.CleanedColumns()))
	for _, name := range model.CleanedColumns() {
		i, ok := t.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, name)
		}
		idx[name] = i
	}

	titles := make([]model.Title, 0, t.Len())
	for n, row := range t.Rows() {
		title, err := castRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d (show_id %q): %v",
				model.ErrTypeConversion, n, row[idx[model.ColShowID]].String, err)
		}
		titles = append(titles, title)
	}
	return titles, nil
}

func castRow(row model.Row, idx map[string]int) (model.Title, error) {
	text := func(column string) string {
		return row[idx[column]].String
	}

	dateAdded := row[idx[model.ColDateAdded]]
	if !dateAdded.Valid {
		return model.Title{}, fmt.Errorf("date_added is null")
	}
	added, err := time.Parse(DateAddedLayout, dateAdded.String)
	if err != nil {
		return model.Title{}, fmt.Errorf("date_added %q: %w", dateAdded.String, err)
	}

	releaseYear := row[idx[model.ColReleaseYear]]
	if !releaseYear.Valid {
		return model.Title{}, fmt.Errorf("release_year is null")
	}
	year, err := toInt32(releaseYear.String)
	if err != nil {
		return model.Title{}, fmt.Errorf("release_year %q: %w", releaseYear.String, err)
	}

	var duration sql.NullInt32
	if v := row[idx[model.ColDuration]]; v.Valid {
		magnitude, err := toInt32(v.String)
		if err != nil {
			return model.Title{}, fmt.Errorf("duration %q: %w", v.String, err)
		}
		duration = sql.NullInt32{Int32: magnitude, Valid: true}
	}

	return model.Title{
		ShowID:       text(model.ColShowID),
		Type:         text(model.ColType),
		Title:        text(model.ColTitle),
		Director:     text(model.ColDirector),
		Cast:         text(model.ColCast),
		Country:      text(model.ColCountry),
		DateAdded:    added,
		ReleaseYear:  year,
		Rating:       text(model.ColRating),
		Duration:     duration,
		DurationType: row[idx[model.ColDurationType]],
		ListedIn:     text(model.ColListedIn),
		Description:  text(model.ColDescription),
	}, nil
}
