package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/influencer-kpi/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "influencer-kpi",
	Short: "Influencer marketing KPI pipeline",
	Long:  "Loads influencer, post, tracking and payout tables, derives per-influencer KPIs, aggregates platform, persona, category and product views, and recommends investment actions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlagOverrides(cmd, c)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	registerInputFlags(rootCmd.PersistentFlags())
}

// registerInputFlags adds the flags shared by every pipeline command.
func registerInputFlags(pf *pflag.FlagSet) {
	pf.String("influencers", "", "influencers table location (path, file://, http(s)://, ftp://)")
	pf.String("posts", "", "posts table location")
	pf.String("tracking", "", "tracking table location")
	pf.String("payouts", "", "payouts table location")
	pf.String("workbook", "", "XLSX workbook holding all four tables as sheets")
	pf.String("delimiter", "", "input field delimiter (default from config)")
	pf.String("encoding", "", "input charset, e.g. windows-1252 (default UTF-8)")
	pf.Int64("seed", 0, "seed for Monitor sampling (0 = random)")
	pf.String("store", "", "snapshot store driver: none, sqlite or postgres")
	pf.String("database-url", "", "snapshot store database URL or SQLite path")
}

// applyFlagOverrides copies explicitly set flags onto c.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("influencers", &c.Input.Influencers)
	str("posts", &c.Input.Posts)
	str("tracking", &c.Input.Tracking)
	str("payouts", &c.Input.Payouts)
	str("workbook", &c.Input.Workbook)
	str("delimiter", &c.Input.Delimiter)
	str("encoding", &c.Input.Encoding)
	str("store", &c.Store.Driver)
	str("database-url", &c.Store.DatabaseURL)
	str("out", &c.Output.Dir)
	str("locale", &c.Report.Locale)
	if flags.Changed("seed") {
		c.Actions.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("xlsx") {
		c.Output.XLSX, _ = flags.GetBool("xlsx")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
