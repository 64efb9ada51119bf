package writer

import (
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/apache/arrow/go/v16/parquet/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/catalog-cleaner/pkg/converter"
	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

func sampleTitles(n int) []model.Title {
	titles := make([]model.Title, n)
	for i := range titles {
		titles[i] = model.Title{
			ShowID:       "s" + strconv.Itoa(i+1),
			Type:         "Movie",
			Title:        "Title",
			Director:     "NA",
			Cast:         "NA",
			Country:      "India,France",
			DateAdded:    time.Date(2021, time.September, 25, 0, 0, 0, 0, time.UTC),
			ReleaseYear:  2020,
			Rating:       "TV-MA",
			Duration:     sql.NullInt32{Int32: 90, Valid: true},
			DurationType: sql.NullString{String: "min", Valid: true},
			ListedIn:     "Dramas",
			Description:  "desc",
		}
	}
	if n > 0 {
		titles[n-1].Duration = sql.NullInt32{}
		titles[n-1].DurationType = sql.NullString{}
	}
	return titles
}

func newWriter(t *testing.T, format string, chunkSize int) FileWriter {
	t.Helper()
	logger := zaptest.NewLogger(t)
	w, err := New(format, converter.NewTypeConverter(logger), logger, chunkSize)
	require.NoError(t, err)
	return w
}

func TestNew_UnknownFormat(t *testing.T) {
	logger := zaptest.NewLogger(t)
	_, err := New("xlsx", converter.NewTypeConverter(logger), logger, 10)
	assert.Error(t, err)
}

func TestParquetWriter_WritesValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned", "cleaned_data.parquet")
	w := newWriter(t, "parquet", 2)

	require.NoError(t, w.WriteFile(context.Background(), path, sampleTitles(5)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))

	rdr, err := file.OpenParquetFile(path, false)
	require.NoError(t, err)
	defer rdr.Close()

	assert.Equal(t, int64(5), rdr.NumRows())
	assert.GreaterOrEqual(t, rdr.NumRowGroups(), 1)
	assert.Equal(t, len(model.CleanedColumns()), rdr.MetaData().Schema.NumColumns())
}

func TestParquetWriter_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.parquet")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	w := newWriter(t, "parquet", 100)
	require.NoError(t, w.WriteFile(context.Background(), path, sampleTitles(1)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(data[:4]))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestParquetWriter_CancelledKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.parquet")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newWriter(t, "parquet", 1).WriteFile(ctx, path, sampleTitles(3))
	require.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.csv")

	require.NoError(t, newWriter(t, "csv", 0).WriteFile(context.Background(), path, sampleTitles(2)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, model.CleanedColumns(), records[0])
	assert.Equal(t, "2021-09-25", records[1][6])
	assert.Equal(t, "2020", records[1][7])
	assert.Equal(t, "90", records[1][9])
	assert.Equal(t, "min", records[1][10])
	assert.Equal(t, "India,France", records[1][5])
	assert.Equal(t, "", records[2][9])
	assert.Equal(t, "", records[2][10])
}
