package cleaner

import (
	"strings"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// rowKey encodes every value of a row, keeping null distinct from any text
func rowKey(row model.Row) string {
	var sb strings.Builder
	for _, v := range row {
		if !v.Valid {
			sb.WriteString("\x00N")
			continue
		}
		sb.WriteString("\x00V")
		sb.WriteString(v.String)
	}
	return sb.String()
}

// Deduplicate collapses exact full-row duplicates, keeping the first occurrence
func Deduplicate(t *model.Table) *model.Table {
	return deduplicate(t, nil)
}

func deduplicate(t *model.Table, rec *recorder) *model.Table {
	seen := make(map[string]struct{}, t.Len())
	return t.Filter(func(row model.Row) bool {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			rec.dropped(t, row, model.ColShowID, model.ReasonDuplicateRow)
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// FindDuplicates returns every full row occurring more than once, in first-seen order
func FindDuplicates(t *model.Table) []model.DuplicateGroup {
	counts := make(map[string]int, t.Len())
	var order []string
	firstRow := make(map[string]model.Row)

	for _, row := range t.Rows() {
		key := rowKey(row)
		if counts[key] == 0 {
			order = append(order, key)
			firstRow[key] = row
		}
		counts[key]++
	}

	var groups []model.DuplicateGroup
	for _, key := range order {
		if counts[key] < 2 {
			continue
		}
		groups = append(groups, model.DuplicateGroup{
			ShowID: t.Value(firstRow[key], model.ColShowID).String,
			Count:  counts[key],
		})
	}
	return groups
}
