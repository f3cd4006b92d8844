package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/influencer-kpi/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleMaster() []model.MasterRow {
	last := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	return []model.MasterRow{
		{
			Influencer:   model.Influencer{ID: "INF002", Name: "Bob", Platform: "YouTube", FollowerCount: 50000},
			TotalRevenue: 300,
			TotalPayout:  300,
			ROAS:         1,
			LastPostDate: &last,
			FollowerTier: model.TierMicro,
			Status:       model.StatusReview,
			PlatformRank: 1,
			OverallRank:  2,
			Basis:        model.BasisPerOrder,
		},
		{
			Influencer:   model.Influencer{ID: "INF001", Name: "Alice", Platform: "Instagram"},
			TotalRevenue: 1700.74,
			TotalPayout:  500,
			ROAS:         3.40148,
			OverallRank:  1,
		},
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateRunAssignsID", func(t *testing.T) {
		s := newStore(t)
		run, err := s.CreateRun(context.Background(), model.Run{Influencers: 4, TotalRevenue: 2000.74})
		require.NoError(t, err)
		assert.NotEmpty(t, run.ID)
		assert.False(t, run.StartedAt.IsZero())
		assert.Equal(t, 4, run.Influencers)
	})

	t.Run("ListRunsNewestFirst", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			_, err := s.CreateRun(ctx, model.Run{ID: fmt.Sprintf("run-%d", i), StartedAt: base.Add(time.Duration(i) * time.Hour)})
			require.NoError(t, err)
		}

		runs, err := s.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "run-2", runs[0].ID)
		assert.Equal(t, "run-0", runs[2].ID)

		page, err := s.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "run-1", page[0].ID)
	})

	t.Run("SaveAndGetMaster", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		run, err := s.CreateRun(ctx, model.Run{})
		require.NoError(t, err)

		n, err := s.SaveMaster(ctx, run.ID, sampleMaster())
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		got, err := s.GetMaster(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "INF002", got[0].ID, "input order preserved")
		assert.Equal(t, sampleMaster()[0].ROAS, got[0].ROAS)
		require.NotNil(t, got[0].LastPostDate)
		assert.True(t, sampleMaster()[0].LastPostDate.Equal(*got[0].LastPostDate))
		assert.Equal(t, model.BasisPerOrder, got[0].Basis)
	})

	t.Run("SaveMasterTwiceReplaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		run, err := s.CreateRun(ctx, model.Run{})
		require.NoError(t, err)

		_, err = s.SaveMaster(ctx, run.ID, sampleMaster())
		require.NoError(t, err)
		rows := sampleMaster()
		rows[1].ROAS = 9
		_, err = s.SaveMaster(ctx, run.ID, rows)
		require.NoError(t, err)

		got, err := s.GetMaster(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 9.0, got[1].ROAS)
	})

	t.Run("GetMasterUnknownRun", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetMaster(context.Background(), "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "master snapshot not found")
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "SQLite", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, "none", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no driver configured")

	_, err = Open(ctx, "mysql", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestDigest(t *testing.T) {
	a, err := Digest(sampleMaster())
	require.NoError(t, err)
	b, err := Digest(sampleMaster())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	rows := sampleMaster()
	rows[0].ROAS = 2
	c, err := Digest(rows)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestListLimit(t *testing.T) {
	assert.Equal(t, 100, listLimit(RunFilter{}))
	assert.Equal(t, 5, listLimit(RunFilter{Limit: 5}))
}
