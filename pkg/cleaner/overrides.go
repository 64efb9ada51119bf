package cleaner

import (
	"fmt"
	"sort"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// FieldMove copies From into To, then sets From to Replacement
type FieldMove struct {
	From        string
	To          string
	Replacement string
}

// Override is an explicit correction for one known-bad source row
type Override struct {
	Reason string
	Moves  []FieldMove
}

// DefaultOverrides returns the corrections for known-bad rows of the catalog
// dataset, keyed by show_id. These rows carry their duration in the rating field.
func DefaultOverrides() map[string]Override {
	ratingHoldsDuration := Override{
		Reason: "rating holds the duration",
		Moves: []FieldMove{
			{From: model.ColRating, To: model.ColDuration, Replacement: model.Sentinel},
		},
	}

	return map[string]Override{
		"s5814": ratingHoldsDuration,
		"s5542": ratingHoldsDuration,
		"s5795": ratingHoldsDuration,
	}
}

// ApplyOverrides runs the corrections for matching show_id values. It returns
// the sorted show_ids that were corrected.
func ApplyOverrides(t *model.Table, overrides map[string]Override) (*model.Table, []string, error) {
	return applyOverrides(t, overrides, nil)
}

func applyOverrides(t *model.Table, overrides map[string]Override, rec *recorder) (*model.Table, []string, error) {
	if len(overrides) == 0 {
		return t, nil, nil
	}

	idIdx, ok := t.ColumnIndex(model.ColShowID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, model.ColShowID)
	}

	// Validate every move before touching rows.
	for id, o := range overrides {
		for _, mv := range o.Moves {
			if !t.HasColumn(mv.From) || !t.HasColumn(mv.To) {
				return nil, nil, fmt.Errorf("%w: override %s moves %s to %s", model.ErrSchemaMismatch, id, mv.From, mv.To)
			}
		}
	}

	var applied []string
	out := t.Map(func(row model.Row) model.Row {
		id := row[idIdx]
		if !id.Valid {
			return row
		}
		o, ok := overrides[id.String]
		if !ok {
			return row
		}

		for _, mv := range o.Moves {
			from, _ := t.ColumnIndex(mv.From)
			to, _ := t.ColumnIndex(mv.To)

			rec.changed(t, row, mv.To, row[to], row[from].String, model.OpOverride, model.ReasonKnownBadRow)
			rec.changed(t, row, mv.From, row[from], mv.Replacement, model.OpOverride, model.ReasonKnownBadRow)

			row[to] = row[from]
			row[from] = model.Text(mv.Replacement)
		}
		applied = append(applied, id.String)
		return row
	})

	sort.Strings(applied)
	return out, applied, nil
}
