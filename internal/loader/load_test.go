package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/influencer-kpi/internal/fetcher"
)

func testdataSources() Sources {
	return Sources{
		Influencers: filepath.Join("testdata", "influencers.csv"),
		Posts:       filepath.Join("testdata", "posts.csv"),
		Tracking:    filepath.Join("testdata", "tracking.csv"),
		Payouts:     filepath.Join("testdata", "payouts.csv"),
	}
}

func TestLoad_Testdata(t *testing.T) {
	ds, err := Load(context.Background(), testdataSources(), &fetcher.Opener{})
	require.NoError(t, err)

	assert.Len(t, ds.Influencers, 5)
	assert.Len(t, ds.Posts, 4)
	assert.Len(t, ds.Tracking, 4)
	assert.Len(t, ds.Payouts, 4)
	assert.Equal(t, "Instagram", ds.Posts[0].Platform, "pla0orm header is canonicalized")

	rows := Join(*ds)
	require.Len(t, rows, 4)

	byID := make(map[string]int, len(rows))
	for i, r := range rows {
		byID[r.ID] = i
	}

	alice := rows[byID["INF001"]]
	assert.Equal(t, 2.0, alice.TotalPosts)
	assert.Equal(t, 4000.0, alice.TotalReach)
	assert.Equal(t, 200.0, alice.AvgLikesPerPost)
	assert.Equal(t, 4.0, alice.TotalOrders)
	assert.Equal(t, 1700.74, alice.TotalRevenue)
	assert.Equal(t, 2.0, alice.CampaignsCount)
	assert.Equal(t, 500.0, alice.TotalPayout)

	bob := rows[byID["INF002"]]
	assert.Equal(t, "Bob", bob.Name, "first duplicate wins")
	assert.Equal(t, 300.0, bob.TotalPayout, "first payout wins")

	dan := rows[byID["INF004"]]
	assert.Zero(t, dan.TotalPayout)
	assert.Equal(t, int64(1500000), dan.FollowerCount)
}

func TestLoad_OptionalTablesMayBeEmpty(t *testing.T) {
	src := Sources{Influencers: filepath.Join("testdata", "influencers.csv")}

	ds, err := Load(context.Background(), src, &fetcher.Opener{})
	require.NoError(t, err)
	assert.Len(t, ds.Influencers, 5)
	assert.Empty(t, ds.Posts)
	assert.Empty(t, ds.Tracking)
	assert.Empty(t, ds.Payouts)
}

func TestLoad_MissingInfluencers(t *testing.T) {
	_, err := Load(context.Background(), Sources{}, &fetcher.Opener{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "influencers location is required")
}

func TestLoad_UnreadableInput(t *testing.T) {
	src := testdataSources()
	src.Tracking = filepath.Join("testdata", "does-not-exist.csv")

	_, err := Load(context.Background(), src, &fetcher.Opener{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader: open")
}

func TestLoad_Delimiter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "influencers.tsv")
	require.NoError(t, os.WriteFile(path, []byte("influencer_id\tname\nINF001\tAlice\n"), 0o644))

	ds, err := Load(context.Background(), Sources{Influencers: path, Delimiter: '\t'}, &fetcher.Opener{})
	require.NoError(t, err)
	require.Len(t, ds.Influencers, 1)
	assert.Equal(t, "Alice", ds.Influencers[0].Name)
}

func TestLoad_CommentAndTrimSpace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "influencers.csv")
	body := "# exported from crm\ninfluencer_id , name , platform\n INF001 , Aarav Sharma , Instagram \n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	ds, err := Load(context.Background(), Sources{Influencers: path, Comment: '#', TrimSpace: true}, &fetcher.Opener{})
	require.NoError(t, err)
	require.Len(t, ds.Influencers, 1)
	assert.Equal(t, "INF001", ds.Influencers[0].ID)
	assert.Equal(t, "Aarav Sharma", ds.Influencers[0].Name)
	assert.Equal(t, "Instagram", ds.Influencers[0].Platform)
}

func TestLoad_Encoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "influencers.csv")
	require.NoError(t, os.WriteFile(path, []byte("influencer_id,name\nINF001,Zo\xeb\n"), 0o644))

	ds, err := Load(context.Background(), Sources{Influencers: path, Encoding: "latin1"}, &fetcher.Opener{})
	require.NoError(t, err)
	require.Len(t, ds.Influencers, 1)
	assert.Equal(t, "Zoë", ds.Influencers[0].Name)

	_, err = Load(context.Background(), Sources{Influencers: path, Encoding: "nope"}, &fetcher.Opener{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader: decode")
}

func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, name := range []string{SheetInfluencers, SheetPosts, SheetTracking, SheetPayouts} {
		rows, ok := sheets[name]
		if !ok {
			continue
		}
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, r := range rows {
			row := sheet.AddRow()
			for _, v := range r {
				row.AddCell().SetString(v)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "inputs.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoad_Workbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		SheetInfluencers: {
			{"influencer_id", "name", "platform"},
			{"INF001", "Alice", "Instagram"},
		},
		SheetPayouts: {
			{"influencer_id", "basis", "rate", "orders", "total_payout"},
			{"INF001", "post", "250", "4", "500"},
		},
	})

	ds, err := Load(context.Background(), Sources{Workbook: path}, &fetcher.Opener{})
	require.NoError(t, err)
	require.Len(t, ds.Influencers, 1)
	assert.Equal(t, "Alice", ds.Influencers[0].Name)
	assert.Empty(t, ds.Posts)
	require.Len(t, ds.Payouts, 1)
	assert.Equal(t, 500.0, ds.Payouts[0].TotalPayout)
}

func TestLoad_WorkbookWithoutInfluencers(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		SheetPosts: {{"post_id"}, {"P1"}},
	})

	_, err := Load(context.Background(), Sources{Workbook: path}, &fetcher.Opener{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no \"influencers\" sheet")
}
