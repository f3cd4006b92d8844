package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Publish PublishConfig `yaml:"publish" mapstructure:"publish"`
	Actions ActionsConfig `yaml:"actions" mapstructure:"actions"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the four source tables. Each location may be a local
// path or a file://, http(s):// or ftp:// URL. When Workbook is set the
// tables are read from its sheets instead.
type InputConfig struct {
	Influencers string `yaml:"influencers" mapstructure:"influencers"`
	Posts       string `yaml:"posts" mapstructure:"posts"`
	Tracking    string `yaml:"tracking" mapstructure:"tracking"`
	Payouts     string `yaml:"payouts" mapstructure:"payouts"`
	Workbook    string `yaml:"workbook" mapstructure:"workbook"`
	Delimiter   string `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding    string `yaml:"encoding" mapstructure:"encoding"`
	Comment     string `yaml:"comment" mapstructure:"comment"`
	TrimSpace   bool   `yaml:"trim_space" mapstructure:"trim_space"`
}

// OutputConfig configures where derived tables are written.
type OutputConfig struct {
	Dir  string `yaml:"dir" mapstructure:"dir"`
	XLSX bool   `yaml:"xlsx" mapstructure:"xlsx"`
}

// FetchConfig tunes remote input downloads.
type FetchConfig struct {
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// StoreConfig configures the snapshot database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PublishConfig configures S3 publication of output files.
type PublishConfig struct {
	Bucket       string `yaml:"bucket" mapstructure:"bucket"`
	Prefix       string `yaml:"prefix" mapstructure:"prefix"`
	Region       string `yaml:"region" mapstructure:"region"`
	Endpoint     string `yaml:"endpoint" mapstructure:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style" mapstructure:"use_path_style"`
}

// ActionsConfig configures investment action segmentation.
// Seed 0 samples the Monitor bucket from a time-seeded source.
type ActionsConfig struct {
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

// ServerConfig configures the JSON API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// ReportConfig configures the terminal report.
type ReportConfig struct {
	Locale   string `yaml:"locale" mapstructure:"locale"`
	Currency string `yaml:"currency" mapstructure:"currency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("KPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.influencers", "influencers.csv")
	v.SetDefault("input.posts", "posts.csv")
	v.SetDefault("input.tracking", "tracking.csv")
	v.SetDefault("input.payouts", "payouts.csv")
	v.SetDefault("input.workbook", "")
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("input.encoding", "")
	v.SetDefault("input.comment", "")
	v.SetDefault("input.trim_space", false)
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.xlsx", false)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "influencer-kpi/1.0")
	v.SetDefault("fetch.requests_per_sec", 5)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")
	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("publish.use_path_style", false)
	v.SetDefault("actions.seed", 0)
	v.SetDefault("publish.region", "us-east-1")
	v.SetDefault("publish.prefix", "influencer-kpi")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("report.locale", "en")
	v.SetDefault("report.currency", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "", "none", "sqlite":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required for the postgres driver")
		}
	default:
		return eris.Errorf("config: unknown store driver %q (valid: none, sqlite, postgres)", c.Store.Driver)
	}
	if len([]rune(c.Input.Delimiter)) > 1 {
		return eris.Errorf("config: input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if len([]rune(c.Input.Comment)) > 1 {
		return eris.Errorf("config: input.comment must be a single character, got %q", c.Input.Comment)
	}
	if c.Input.Comment != "" && c.Input.CommentRune() == c.Input.DelimiterRune() {
		return eris.New("config: input.comment must differ from input.delimiter")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// DelimiterRune returns the configured input delimiter, defaulting to a comma.
func (c InputConfig) DelimiterRune() rune {
	r := []rune(c.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// CommentRune returns the configured comment character, or 0 when unset.
func (c InputConfig) CommentRune() rune {
	r := []rune(c.Comment)
	if len(r) == 0 {
		return 0
	}
	return r[0]
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
