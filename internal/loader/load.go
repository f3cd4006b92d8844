package loader

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/influencer-kpi/internal/fetcher"
)

// Sheet names read from an input workbook.
const (
	SheetInfluencers = "influencers"
	SheetPosts       = "posts"
	SheetTracking    = "tracking"
	SheetPayouts     = "payouts"
)

// Opener resolves an input location to a reader.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// Sources names the input locations. When Workbook is set the four tables
// are read from its sheets and the per-table locations are ignored. Empty
// post, tracking or payout locations load as empty tables.
type Sources struct {
	Influencers string
	Posts       string
	Tracking    string
	Payouts     string
	Workbook    string
	Delimiter   rune
	// Encoding is the charset of delimited inputs; empty means UTF-8.
	Encoding string
	// Comment marks lines to skip in delimited inputs (0 = none).
	Comment   rune
	TrimSpace bool
}

// Load reads and parses the input tables. The four delimited inputs are
// fetched concurrently. An unreadable input fails the load; malformed
// content does not.
func Load(ctx context.Context, src Sources, opener Opener) (*Dataset, error) {
	if src.Workbook != "" {
		return loadWorkbook(ctx, src.Workbook, opener)
	}
	if src.Influencers == "" {
		return nil, eris.New("loader: influencers location is required")
	}

	opts := fetcher.CSVOptions{
		Delimiter:  src.Delimiter,
		Comment:    src.Comment,
		LazyQuotes: true,
		TrimSpace:  src.TrimSpace,
	}
	var infT, postT, trackT, payT *fetcher.Table

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	read := func(location string, dst **fetcher.Table) {
		g.Go(func() error {
			if location == "" {
				return nil
			}
			t, err := readTable(gctx, opener, location, src.Encoding, opts)
			if err != nil {
				return err
			}
			*dst = t
			return nil
		})
	}
	read(src.Influencers, &infT)
	read(src.Posts, &postT)
	read(src.Tracking, &trackT)
	read(src.Payouts, &payT)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return build(infT, postT, trackT, payT), nil
}

func readTable(ctx context.Context, opener Opener, location, charset string, opts fetcher.CSVOptions) (*fetcher.Table, error) {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open %s", location)
	}
	defer rc.Close() //nolint:errcheck

	r, err := fetcher.CharsetReader(charset, rc)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: decode %s", location)
	}
	t, err := fetcher.ReadTable(ctx, r, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read %s", location)
	}
	return t, nil
}

func loadWorkbook(ctx context.Context, location string, opener Opener) (*Dataset, error) {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open workbook %s", location)
	}
	defer rc.Close() //nolint:errcheck

	sheets, err := fetcher.ReadWorkbook(rc, SheetInfluencers, SheetPosts, SheetTracking, SheetPayouts)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read workbook %s", location)
	}
	if sheets[SheetInfluencers] == nil {
		return nil, eris.Errorf("loader: workbook %s has no %q sheet", location, SheetInfluencers)
	}
	for _, name := range []string{SheetPosts, SheetTracking, SheetPayouts} {
		if sheets[name] == nil {
			zap.L().Warn("loader: workbook sheet missing, treating as empty",
				zap.String("workbook", location), zap.String("sheet", name))
		}
	}

	return build(sheets[SheetInfluencers], sheets[SheetPosts], sheets[SheetTracking], sheets[SheetPayouts]), nil
}

func build(infT, postT, trackT, payT *fetcher.Table) *Dataset {
	ds := &Dataset{
		Influencers: ParseInfluencers(infT),
		Posts:       ParsePosts(postT),
		Tracking:    ParseTracking(trackT),
		Payouts:     ParsePayouts(payT),
	}
	zap.L().Info("loader: inputs parsed",
		zap.Int("influencers", len(ds.Influencers)),
		zap.Int("posts", len(ds.Posts)),
		zap.Int("tracking", len(ds.Tracking)),
		zap.Int("payouts", len(ds.Payouts)),
	)
	return ds
}
