package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

func TestDeduplicate_KeepsFirstOccurrence(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColShowID: "s1"}),
		catalogRow(map[string]string{model.ColShowID: "s2"}),
		catalogRow(map[string]string{model.ColShowID: "s1"}),
		catalogRow(map[string]string{model.ColShowID: "s3"}),
	)

	out := Deduplicate(in)

	assert.Equal(t, []string{"s1", "s2", "s3"}, columnValues(t, out, model.ColShowID))
	assert.Equal(t, 4, in.Len())
}

func TestDeduplicate_Idempotent(t *testing.T) {
	in := catalogTable(t,
		catalogRow(nil),
		catalogRow(nil),
		catalogRow(map[string]string{model.ColShowID: "s2"}),
	)

	once := Deduplicate(in)
	twice := Deduplicate(once)

	assert.Equal(t, once.Rows(), twice.Rows())
	assert.Equal(t, 2, twice.Len())
}

func TestDeduplicate_NullDistinctFromEmpty(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColDirector: null}),
		catalogRow(map[string]string{model.ColDirector: ""}),
	)

	assert.Equal(t, 2, Deduplicate(in).Len())
}

func TestDeduplicate_EmptyTable(t *testing.T) {
	in := catalogTable(t)
	assert.Equal(t, 0, Deduplicate(in).Len())
	assert.Empty(t, FindDuplicates(in))
}

func TestFindDuplicates(t *testing.T) {
	in := catalogTable(t,
		catalogRow(map[string]string{model.ColShowID: "s9"}),
		catalogRow(nil),
		catalogRow(map[string]string{model.ColShowID: "s9"}),
		catalogRow(nil),
		catalogRow(nil),
		catalogRow(map[string]string{model.ColShowID: "s3"}),
	)

	groups := FindDuplicates(in)

	assert.Equal(t, []model.DuplicateGroup{
		{ShowID: "s9", Count: 2},
		{ShowID: "s1", Count: 3},
	}, groups)
	assert.Empty(t, FindDuplicates(Deduplicate(in)))
}
