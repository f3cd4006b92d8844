package export

import (
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteWorkbook writes each table to its own sheet, named after the table.
func WriteWorkbook(w io.Writer, tables ...Table) error {
	f := xlsx.NewFile()
	for _, t := range tables {
		sheet, err := f.AddSheet(t.Name)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", t.Name)
		}

		header := sheet.AddRow()
		for _, h := range t.Header {
			header.AddCell().SetString(h)
		}
		for _, row := range t.Rows {
			r := sheet.AddRow()
			for _, v := range row {
				setCell(r.AddCell(), v)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func setCell(c *xlsx.Cell, v any) {
	switch x := v.(type) {
	case float64:
		c.SetFloat(x)
	case int:
		c.SetInt(x)
	case int64:
		c.SetInt64(x)
	case *time.Time:
		c.SetString(FormatCell(x))
	default:
		c.SetString(FormatCell(v))
	}
}
