package fetcher

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadWorkbook parses an XLSX workbook and returns the named sheets as
// tables keyed by sheet name. Sheets that are absent are left out of the
// result; callers decide whether that is fatal.
func ReadWorkbook(r io.Reader, sheetNames ...string) (map[string]*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: read workbook")
	}

	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	tables := make(map[string]*Table, len(sheetNames))
	for _, name := range sheetNames {
		sheet, ok := f.Sheet[name]
		if !ok {
			continue
		}
		tables[name] = sheetToTable(sheet)
	}
	return tables, nil
}

// ReadSheet reads a single sheet of the workbook at path by index.
func ReadSheet(path string, index int) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if index < 0 || index >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", index, len(f.Sheets))
	}
	return sheetToTable(f.Sheets[index]), nil
}

func sheetToTable(sheet *xlsx.Sheet) *Table {
	t := &Table{}
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := rowToStrings(row)
		if t.Header == nil {
			t.Header = cells
			continue
		}
		if isBlank(cells) {
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
