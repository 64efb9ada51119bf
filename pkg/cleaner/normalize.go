package cleaner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// DateAddedLayout is the layout of date_added values
const DateAddedLayout = "January 2, 2006"

var (
	// dateAddedPattern admits a full English month name, a 1-2 digit day
	// without leading zero and a 4 digit year
	dateAddedPattern = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December) [1-9]{1}[0-9]?, \d{4}$`)

	// showIDPattern is the expected shape of a show_id
	showIDPattern = regexp.MustCompile(`^s.*\d$`)
)

// TrimColumn strips leading and trailing whitespace from every value of a column
func TrimColumn(t *model.Table, column string) (*model.Table, error) {
	return mapColumn(t, column, strings.TrimSpace)
}

// NormalizeListColumn trims every comma separated segment of a column's values
func NormalizeListColumn(t *model.Table, column string) (*model.Table, error) {
	return mapColumn(t, column, NormalizeList)
}

// NormalizeList splits on ",", trims every segment and rejoins with ",".
// Segment order and count are preserved, so applying it twice is a no-op.
func NormalizeList(s string) string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}

// mapColumn applies fn to every non-null value of a column
func mapColumn(t *model.Table, column string, fn func(string) string) (*model.Table, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, column)
	}

	return t.Map(func(row model.Row) model.Row {
		if row[idx].Valid {
			row[idx] = model.Text(fn(row[idx].String))
		}
		return row
	}), nil
}

// ValidDateAdded reports whether s matches the date_added pattern and is a
// real calendar date
func ValidDateAdded(s string) bool {
	if !dateAddedPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateAddedLayout, s)
	return err == nil
}

// DateGate drops rows whose date_added is not a valid date. Nothing is repaired.
func DateGate(t *model.Table) (*model.Table, int, error) {
	return dateGate(t, nil)
}

func dateGate(t *model.Table, rec *recorder) (*model.Table, int, error) {
	idx, ok := t.ColumnIndex(model.ColDateAdded)
	if !ok {
		return nil, 0, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, model.ColDateAdded)
	}

	out := t.Filter(func(row model.Row) bool {
		v := row[idx]
		if v.Valid && ValidDateAdded(v.String) {
			return true
		}
		rec.dropped(t, row, model.ColDateAdded, model.ReasonDatePattern)
		return false
	})
	return out, t.Len() - out.Len(), nil
}

// CountInvalidShowIDs returns how many rows have a show_id outside the s<...><digit> shape
func CountInvalidShowIDs(t *model.Table) (int, error) {
	idx, ok := t.ColumnIndex(model.ColShowID)
	if !ok {
		return 0, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, model.ColShowID)
	}

	invalid := 0
	for _, row := range t.Rows() {
		if !row[idx].Valid || !showIDPattern.MatchString(row[idx].String) {
			invalid++
		}
	}
	return invalid, nil
}

// ReplaceSentinelRating replaces rating "NA" with the mode of the real ratings.
// ok is false when no real rating exists; the table is then returned unchanged.
func ReplaceSentinelRating(t *model.Table) (*model.Table, string, bool, error) {
	return replaceSentinelRating(t, nil)
}

func replaceSentinelRating(t *model.Table, rec *recorder) (*model.Table, string, bool, error) {
	idx, ok := t.ColumnIndex(model.ColRating)
	if !ok {
		return nil, "", false, fmt.Errorf("%w: column %q not found", model.ErrSchemaMismatch, model.ColRating)
	}

	mode, ok, err := Mode(t, model.ColRating, model.Sentinel)
	if err != nil {
		return nil, "", false, err
	}
	if !ok {
		return t, "", false, nil
	}

	out := t.Map(func(row model.Row) model.Row {
		if row[idx].Valid && row[idx].String == model.Sentinel {
			rec.changed(t, row, model.ColRating, row[idx], mode, model.OpModeReplace, model.ReasonSentinelRating)
			row[idx] = model.Text(mode)
		}
		return row
	})
	return out, mode, true, nil
}

// SplitDurationValue splits a duration such as "90 min" or "2 Seasons" into
// its magnitude and unit. ok is false unless there are exactly two non-empty
// space separated tokens and the magnitude is an integer.
func SplitDurationValue(s string) (magnitude, unit string, ok bool) {
	parts := strings.Split(s, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	if _, err := toInt32(parts[0]); err != nil {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// SplitDuration adds duration_type after duration and decomposes every
// duration. The sentinel yields null magnitude and unit; any other value that
// does not split cleanly drops the row.
func SplitDuration(t *model.Table) (*model.Table, int, error) {
	return splitDuration(t, nil)
}

func splitDuration(t *model.Table, rec *recorder) (*model.Table, int, error) {
	withType, err := t.InsertColumn(model.ColDurationType, model.ColDuration)
	if err != nil {
		return nil, 0, err
	}
	durIdx, _ := withType.ColumnIndex(model.ColDuration)
	typeIdx, _ := withType.ColumnIndex(model.ColDurationType)

	valid := withType.Filter(func(row model.Row) bool {
		v := row[durIdx]
		if !v.Valid || v.String == model.Sentinel {
			return true
		}
		if _, _, ok := SplitDurationValue(v.String); ok {
			return true
		}
		rec.dropped(withType, row, model.ColDuration, model.ReasonMalformedDuration)
		return false
	})

	out := valid.Map(func(row model.Row) model.Row {
		v := row[durIdx]
		if !v.Valid || v.String == model.Sentinel {
			row[durIdx] = model.Null()
			row[typeIdx] = model.Null()
			return row
		}
		magnitude, unit, _ := SplitDurationValue(v.String)
		row[durIdx] = model.Text(magnitude)
		row[typeIdx] = model.Text(unit)
		return row
	})

	return out, withType.Len() - out.Len(), nil
}
