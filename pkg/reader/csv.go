package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

// Load reads a CSV file into a table laid out as schema.
func Load(name, compression string, schema model.ColumnSchema) (*model.Table, error) {
	in, err := Open(name, compression)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	table, err := ReadTable(in, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return table, nil
}

// ReadTable parses CSV with a header row. All values are read as text and an
// empty field is a null value. Columns outside schema are ignored; a schema
// column missing from the header is model.ErrSchemaMismatch.
func ReadTable(r io.Reader, schema model.ColumnSchema) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, model.ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	names := schema.Names()
	source := make([]int, len(names))
	var missing []string
	for i, name := range names {
		pos, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		source[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", model.ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	var rows []model.Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		row := make(model.Row, len(names))
		for i, pos := range source {
			// Short records leave trailing columns null.
			if pos >= len(record) || record[pos] == "" {
				row[i] = model.Null()
				continue
			}
			row[i] = model.Text(record[pos])
		}
		rows = append(rows, row)
	}

	return model.NewTable(names, rows)
}
