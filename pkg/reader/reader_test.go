package reader

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

const header = "show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description\n"

func TestDetectType(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		compression string
	}{
		{"netflix_titles.csv", "csv", ""},
		{"/data/netflix_titles.csv.gz", "csv", "gzip"},
		{"titles.CSV.bz2", "csv", "bzip2"},
		{"titles", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			format, compression := DetectType(tc.name)
			assert.Equal(t, tc.format, format)
			assert.Equal(t, tc.compression, compression)
		})
	}
}

func TestStripBOM(t *testing.T) {
	r := StripBOM(bytes.NewBufferString("\xef\xbb\xbfhello world!\r\n"))

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello world!\r\n", string(b))

	r = StripBOM(bytes.NewBufferString("hi"))
	b, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(b))
}

func TestReadTable(t *testing.T) {
	input := header +
		`s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries,"A film, with commas"` + "\n" +
		`s2,TV Show,Blood & Water,,Ama Qamata,South Africa,"September 24, 2021",2021,TV-MA,2 Seasons,International TV Shows,Drama` + "\n"

	table, err := ReadTable(strings.NewReader(input), model.InputSchema())
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, model.InputSchema().Names(), table.Columns())

	first := table.Rows()[0]
	assert.Equal(t, "s1", table.Value(first, model.ColShowID).String)
	assert.False(t, table.Value(first, model.ColCast).Valid, "empty field must be null")
	assert.Equal(t, "September 25, 2021", table.Value(first, model.ColDateAdded).String)
	assert.Equal(t, "A film, with commas", table.Value(first, model.ColDescription).String)
}

func TestReadTable_ReordersAndIgnoresExtraColumns(t *testing.T) {
	input := "extra,description,show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in\n" +
		"x,desc,s9,Movie,T,D,C,US,\"May 1, 2020\",2019,R,100 min,Dramas\n"

	table, err := ReadTable(strings.NewReader(input), model.InputSchema())
	require.NoError(t, err)

	row := table.Rows()[0]
	assert.Equal(t, "s9", row[0].String)
	assert.Equal(t, "desc", table.Value(row, model.ColDescription).String)
	assert.False(t, table.HasColumn("extra"))
}

func TestReadTable_ShortRecordIsNullPadded(t *testing.T) {
	input := header + "s3,Movie,Title\n"

	table, err := ReadTable(strings.NewReader(input), model.InputSchema())
	require.NoError(t, err)

	row := table.Rows()[0]
	assert.Equal(t, "Title", table.Value(row, model.ColTitle).String)
	assert.False(t, table.Value(row, model.ColDescription).Valid)
}

func TestReadTable_SchemaMismatch(t *testing.T) {
	_, err := ReadTable(strings.NewReader("show_id,type,title\ns1,Movie,T\n"), model.InputSchema())
	require.ErrorIs(t, err, model.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "release_year")
}

func TestReadTable_Empty(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), model.InputSchema())
	assert.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestLoad_InputNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), "", model.InputSchema())
	assert.ErrorIs(t, err, model.ErrInputNotFound)
}

func TestLoad_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.csv.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("\xef\xbb\xbf" + header + "s1,Movie,T,,,,\"May 1, 2020\",2019,R,100 min,Dramas,d\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	table, err := Load(path, "", model.InputSchema())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "s1", table.Value(table.Rows()[0], model.ColShowID).String)
}

func TestOpen_UnknownCompression(t *testing.T) {
	_, err := Open("titles.csv", "zstd")
	assert.Error(t, err)
}
