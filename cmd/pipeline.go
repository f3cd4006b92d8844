package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/influencer-kpi/internal/config"
	"github.com/sells-group/influencer-kpi/internal/fetcher"
	"github.com/sells-group/influencer-kpi/internal/insight"
	"github.com/sells-group/influencer-kpi/internal/kpi"
	"github.com/sells-group/influencer-kpi/internal/loader"
	"github.com/sells-group/influencer-kpi/internal/model"
	"github.com/sells-group/influencer-kpi/internal/server"
	"github.com/sells-group/influencer-kpi/internal/store"
)

func inputSources(c config.InputConfig) loader.Sources {
	return loader.Sources{
		Influencers: c.Influencers,
		Posts:       c.Posts,
		Tracking:    c.Tracking,
		Payouts:     c.Payouts,
		Workbook:    c.Workbook,
		Delimiter:   c.DelimiterRune(),
		Encoding:    c.Encoding,
		Comment:     c.CommentRune(),
		TrimSpace:   c.TrimSpace,
	}
}

func newOpener(c config.FetchConfig) *fetcher.Opener {
	timeout := time.Duration(c.TimeoutSecs) * time.Second
	return fetcher.NewOpener(
		fetcher.HTTPOptions{
			UserAgent:      c.UserAgent,
			Timeout:        timeout,
			MaxRetries:     c.MaxRetries,
			RequestsPerSec: c.RequestsPerSec,
		},
		fetcher.FTPOptions{Timeout: timeout, MaxRetries: c.MaxRetries},
	)
}

// buildMaster loads the inputs, joins them and derives the KPI columns.
// now nil uses the wall clock.
func buildMaster(ctx context.Context, c *config.Config, now func() time.Time) (*loader.Dataset, []model.MasterRow, error) {
	ds, err := loader.Load(ctx, inputSources(c.Input), newOpener(c.Fetch))
	if err != nil {
		return nil, nil, err
	}

	master := kpi.Deriver{Now: now}.Derive(loader.Join(*ds))
	zap.L().Info("pipeline: master table derived", zap.Int("rows", len(master)))
	return ds, master, nil
}

// newRand returns a seeded source, or nil for a time-seeded one.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec
}

func openStore(ctx context.Context, c config.StoreConfig) (store.Store, error) {
	st, err := store.Open(ctx, c.Driver, c.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func storeEnabled(c config.StoreConfig) bool {
	return c.Driver != "" && c.Driver != store.DriverNone
}

// filterFlags holds the view filter flags shared by run and report.
type filterFlags struct {
	platforms   []string
	categories  []string
	tiers       []string
	performance []string
	start       string
	end         string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.platforms, "platform", nil, "keep only these platforms")
	fs.StringSliceVar(&f.categories, "category", nil, "keep only these content categories")
	fs.StringSliceVar(&f.tiers, "tier", nil, "keep only these follower tiers (Nano, Micro, Macro, Mega)")
	fs.StringSliceVar(&f.performance, "performance", nil, "keep only these performance categories (High, Medium, Low)")
	fs.StringVar(&f.start, "start", "", "post window start date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "post window end date, inclusive (YYYY-MM-DD)")
}

// filter parses the flags with the same rules as the API query parameters.
func (f *filterFlags) filter() (insight.Filter, error) {
	q := map[string][]string{
		"platform":    f.platforms,
		"category":    f.categories,
		"tier":        f.tiers,
		"performance": f.performance,
	}
	if f.start != "" {
		q["start"] = []string{f.start}
	}
	if f.end != "" {
		q["end"] = []string{f.end}
	}
	return server.ParseFilter(q)
}
