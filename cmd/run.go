package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/influencer-kpi/internal/config"
	"github.com/sells-group/influencer-kpi/internal/export"
	"github.com/sells-group/influencer-kpi/internal/insight"
	"github.com/sells-group/influencer-kpi/internal/model"
	"github.com/sells-group/influencer-kpi/internal/publish"
	"github.com/sells-group/influencer-kpi/internal/report"
	"github.com/sells-group/influencer-kpi/internal/store"
)

type runOptions struct {
	Filter  insight.Filter
	Publish bool
	Report  bool
	Now     func() time.Time
}

type runOutcome struct {
	RunID     string
	Paths     []string
	URIs      []string
	Master    []model.MasterRow
	Report    insight.Report
	Persisted bool
}

var (
	runFilter  filterFlags
	runPublish bool
	runReport  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the master table and write every output",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := runFilter.filter()
		if err != nil {
			return err
		}

		out, err := executeRun(cmd.Context(), cfg, runOptions{
			Filter:  f,
			Publish: runPublish,
			Report:  runReport,
		}, os.Stdout)
		if err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", out.RunID),
			zap.Int("influencers", len(out.Master)),
			zap.Int("files", len(out.Paths)),
			zap.Int("published", len(out.URIs)),
			zap.Bool("persisted", out.Persisted),
		)
		return nil
	},
}

// executeRun runs the full pipeline: load, derive, aggregate and export,
// then optionally persist, publish and print the report.
func executeRun(ctx context.Context, c *config.Config, opts runOptions, stdout io.Writer) (*runOutcome, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	ds, master, err := buildMaster(ctx, c, opts.Now)
	if err != nil {
		return nil, eris.Wrap(err, "run: build master")
	}

	rep := insight.Build(master, ds.Tracking, opts.Filter, newRand(c.Actions.Seed))
	paths, err := export.WriteAll(ctx, rep, export.Options{
		Dir:       c.Output.Dir,
		Delimiter: ',',
		XLSX:      c.Output.XLSX,
		RunID:     runID,
	})
	if err != nil {
		return nil, eris.Wrap(err, "run: export")
	}
	log.Info("outputs written", zap.String("dir", c.Output.Dir), zap.Int("files", len(paths)))

	out := &runOutcome{RunID: runID, Paths: paths, Master: master, Report: rep}

	if storeEnabled(c.Store) {
		if err := persistRun(ctx, c.Store, runID, started, master, ds.Tracking); err != nil {
			return nil, err
		}
		out.Persisted = true
	}

	if opts.Publish {
		pub, err := publish.New(ctx, publish.Config{
			Bucket:       c.Publish.Bucket,
			Prefix:       c.Publish.Prefix,
			Region:       c.Publish.Region,
			Endpoint:     c.Publish.Endpoint,
			UsePathStyle: c.Publish.UsePathStyle,
		})
		if err != nil {
			return nil, eris.Wrap(err, "run: init publisher")
		}
		out.URIs, err = pub.Publish(ctx, runID, paths)
		if err != nil {
			return nil, eris.Wrap(err, "run: publish")
		}
	}

	if opts.Report {
		r := report.New(c.Report.Locale)
		r.Currency = c.Report.Currency
		if err := r.Write(stdout, rep); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// persistRun stores the unfiltered master table as a snapshot.
func persistRun(ctx context.Context, c config.StoreConfig, runID string, started time.Time, master []model.MasterRow, events []model.Tracking) error {
	st, err := openStore(ctx, c)
	if err != nil {
		return eris.Wrap(err, "run: open store")
	}
	defer st.Close() //nolint:errcheck

	digest, err := store.Digest(master)
	if err != nil {
		return err
	}
	exec := insight.Executive(master, events)
	if _, err := st.CreateRun(ctx, model.Run{
		ID:           runID,
		StartedAt:    started,
		Influencers:  len(master),
		TotalRevenue: exec.TotalRevenue,
		OverallROAS:  exec.OverallROAS,
		InputDigest:  digest,
	}); err != nil {
		return eris.Wrap(err, "run: create run")
	}

	n, err := st.SaveMaster(ctx, runID, master)
	if err != nil {
		return eris.Wrap(err, "run: save master")
	}
	zap.L().Info("snapshot stored", zap.String("run_id", runID), zap.Int64("rows", n), zap.String("driver", c.Driver))
	return nil
}

func init() {
	runFilter.register(runCmd.Flags())
	runCmd.Flags().String("out", "", "output directory (default from config)")
	runCmd.Flags().Bool("xlsx", false, "also write dashboard.xlsx")
	runCmd.Flags().BoolVar(&runPublish, "publish", false, "upload outputs to the configured S3 bucket")
	runCmd.Flags().BoolVar(&runReport, "report", false, "print the terminal report after writing outputs")
	runCmd.Flags().String("locale", "", "report number locale (default from config)")
	rootCmd.AddCommand(runCmd)
}
