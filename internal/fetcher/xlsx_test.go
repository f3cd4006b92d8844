package fetcher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets []string, data map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, name := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range data[name] {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := createTestXLSX(t, []string{"influencers", "posts"}, map[string][][]string{
		"influencers": {
			{"influencer_id", "name"},
			{"INF001", "Aarav Sharma"},
			{"", ""},
			{"INF002", "Diya Patel"},
		},
		"posts": {
			{"post_id", "influencer_id"},
			{"POST001", "INF001"},
		},
	})
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	tables, err := ReadWorkbook(bytes.NewReader(data), "influencers", "posts", "payouts")
	require.NoError(t, err)

	require.Contains(t, tables, "influencers")
	assert.Equal(t, []string{"influencer_id", "name"}, tables["influencers"].Header)
	assert.Equal(t, 2, tables["influencers"].Len())
	assert.Equal(t, []string{"POST001", "INF001"}, tables["posts"].Rows[0])
	assert.NotContains(t, tables, "payouts")
}

func TestReadWorkbook_NotXLSX(t *testing.T) {
	_, err := ReadWorkbook(bytes.NewReader([]byte("not a zip")), "influencers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx: open workbook")
}

func TestReadSheet(t *testing.T) {
	path := createTestXLSX(t, []string{"first", "second"}, map[string][][]string{
		"first":  {{"a"}, {"1"}},
		"second": {{"b", "c"}, {"2", "3"}},
	})

	tbl, err := ReadSheet(path, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, tbl.Header)
	assert.Equal(t, [][]string{{"2", "3"}}, tbl.Rows)
}

func TestReadSheet_IndexOutOfRange(t *testing.T) {
	path := createTestXLSX(t, []string{"only"}, map[string][][]string{"only": {{"a"}}})

	_, err := ReadSheet(path, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReadSheet_MissingFile(t *testing.T) {
	_, err := ReadSheet(filepath.Join(t.TempDir(), "missing.xlsx"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx: open file")
}
