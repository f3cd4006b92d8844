package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// WriteCSV writes t as delimited text. A zero delimiter means ','.
func WriteCSV(w io.Writer, t Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}

	if err := cw.Write(t.Header); err != nil {
		return eris.Wrapf(err, "export: write %s header", t.Name)
	}
	record := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = FormatCell(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "export: write %s row", t.Name)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", t.Name)
	}
	return nil
}
