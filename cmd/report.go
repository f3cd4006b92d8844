package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/influencer-kpi/internal/config"
	"github.com/sells-group/influencer-kpi/internal/insight"
	"github.com/sells-group/influencer-kpi/internal/model"
	"github.com/sells-group/influencer-kpi/internal/report"
)

var (
	reportFilter filterFlags
	reportRunID  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the KPI report without writing outputs",
	Long:  "Runs the pipeline in memory, or reads a stored snapshot with --run, and prints the filtered views as terminal tables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := reportFilter.filter()
		if err != nil {
			return err
		}
		return printReport(cmd.Context(), cfg, reportRunID, f, os.Stdout)
	},
}

func printReport(ctx context.Context, c *config.Config, runID string, f insight.Filter, w io.Writer) error {
	master, events, err := loadMaster(ctx, c, runID)
	if err != nil {
		return err
	}

	r := report.New(c.Report.Locale)
	r.Currency = c.Report.Currency
	return r.Write(w, insight.Build(master, events, f, newRand(c.Actions.Seed)))
}

// loadMaster returns the master table of a stored run, or runs the pipeline
// when runID is empty. Stored runs carry no tracking events.
func loadMaster(ctx context.Context, c *config.Config, runID string) ([]model.MasterRow, []model.Tracking, error) {
	if runID == "" {
		ds, master, err := buildMaster(ctx, c, nil)
		if err != nil {
			return nil, nil, err
		}
		return master, ds.Tracking, nil
	}

	if !storeEnabled(c.Store) {
		return nil, nil, eris.New("report: --run requires a configured store")
	}
	st, err := openStore(ctx, c.Store)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close() //nolint:errcheck

	master, err := st.GetMaster(ctx, runID)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "report: load run %s", runID)
	}
	return master, nil, nil
}

func init() {
	reportFilter.register(reportCmd.Flags())
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "render a stored run instead of the current inputs")
	reportCmd.Flags().String("locale", "", "number locale (default from config)")
	rootCmd.AddCommand(reportCmd)
}
