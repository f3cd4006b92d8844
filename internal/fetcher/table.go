package fetcher

import (
	"context"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a parsed delimited file: one header row plus data rows. Rows may
// be shorter or longer than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ReadTable reads all of r into a Table. The first non-comment row is the
// header; an empty input yields an empty table.
func ReadTable(ctx context.Context, r io.Reader, opts CSVOptions) (*Table, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	t := &Table{}
	for row := range rowCh {
		if t.Header == nil {
			t.Header = row
			continue
		}
		if isBlank(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	for err := range errCh {
		if err != nil {
			return nil, eris.Wrap(err, "table: read")
		}
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
