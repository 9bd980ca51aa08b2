package config

// Package config handles configuration loading for secdcf.
// It supports YAML config files, a .env file and environment variable overrides.
// package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the placeholder SEC contact string. SEC asks for a real
// name and e-mail address, so operators are expected to override it.
const DefaultUserAgent = "secdcf/1.0 (contact@example.com)"

// Config represents the complete application configuration.
type Config struct {
	EDGAR     EDGARConfig     `mapstructure:"edgar"     yaml:"edgar"`
	Paths     PathsConfig     `mapstructure:"paths"     yaml:"paths"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"  yaml:"defaults"`
	Valuation ValuationConfig `mapstructure:"valuation" yaml:"valuation"`
	Price     PriceConfig     `mapstructure:"price"     yaml:"price"`
	Render    RenderConfig    `mapstructure:"render"    yaml:"render"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// EDGARConfig holds SEC EDGAR endpoint and courtesy settings.
type EDGARConfig struct {
	UserAgent    string        `mapstructure:"user_agent"    yaml:"user_agent"`
	DataURL      string        `mapstructure:"data_url"      yaml:"data_url"`      // submissions + companyfacts
	TickersURL   string        `mapstructure:"tickers_url"   yaml:"tickers_url"`   // company_tickers.json
	FeedURL      string        `mapstructure:"feed_url"      yaml:"feed_url"`      // browse-edgar Atom feed
	FilingSource string        `mapstructure:"filing_source" yaml:"filing_source"` // "submissions" or "feed"
	RequestDelay time.Duration `mapstructure:"request_delay" yaml:"request_delay"`
	Timeout      time.Duration `mapstructure:"timeout"       yaml:"timeout"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	OutRoot    string `mapstructure:"out_root"    yaml:"out_root"`    // bundles, pages, index
	CacheDir   string `mapstructure:"cache_dir"   yaml:"cache_dir"`   // registry snapshot
	TickerList string `mapstructure:"ticker_list" yaml:"ticker_list"` // fallback batch list
}

// DefaultsConfig holds CLI fallbacks.
type DefaultsConfig struct {
	Ticker string `mapstructure:"ticker" yaml:"ticker"`
}

// ValuationConfig holds the default DCF assumptions, in percent.
type ValuationConfig struct {
	Years             int     `mapstructure:"years"               yaml:"years"`
	GrowthPct         float64 `mapstructure:"growth_pct"          yaml:"growth_pct"`
	TerminalGrowthPct float64 `mapstructure:"terminal_growth_pct" yaml:"terminal_growth_pct"`
	DiscountPct       float64 `mapstructure:"discount_pct"        yaml:"discount_pct"`
	SweepMinPct       float64 `mapstructure:"sweep_min_pct"       yaml:"sweep_min_pct"`
	SweepMaxPct       float64 `mapstructure:"sweep_max_pct"       yaml:"sweep_max_pct"`
	SweepStepPct      float64 `mapstructure:"sweep_step_pct"      yaml:"sweep_step_pct"`
}

// PriceConfig holds market price lookup settings.
type PriceConfig struct {
	Mode          string        `mapstructure:"mode"           yaml:"mode"` // "auto" or "none"
	BaseURL       string        `mapstructure:"base_url"       yaml:"base_url"`
	CountrySuffix string        `mapstructure:"country_suffix" yaml:"country_suffix"`
	Timeout       time.Duration `mapstructure:"timeout"        yaml:"timeout"`
}

// RenderConfig holds page rendering settings.
type RenderConfig struct {
	StylesheetURL string `mapstructure:"stylesheet_url" yaml:"stylesheet_url"`
	ChartJSURL    string `mapstructure:"chart_js_url"   yaml:"chart_js_url"`
	SiteName      string `mapstructure:"site_name"      yaml:"site_name"`
	SiteURL       string `mapstructure:"site_url"       yaml:"site_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.secdcf/config.yaml (home directory)
//  3. /etc/secdcf/config.yaml (system)
//
// A .env file in the working directory is loaded first, if present.
// Environment variables override config file values.
// Format: SECDCF_<SECTION>_<KEY>, e.g., SECDCF_EDGAR_USER_AGENT
func Load() (*Config, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".secdcf"))
	v.AddConfigPath("/etc/secdcf")

	bindEnv(v)

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.EDGAR.FilingSource {
	case "submissions", "feed":
	default:
		return fmt.Errorf("edgar.filing_source must be submissions or feed, got %q", c.EDGAR.FilingSource)
	}
	switch c.Price.Mode {
	case "auto", "none":
	default:
		return fmt.Errorf("price.mode must be auto or none, got %q", c.Price.Mode)
	}
	if c.EDGAR.RequestDelay < 0 {
		return fmt.Errorf("edgar.request_delay must not be negative")
	}
	if c.Valuation.SweepStepPct <= 0 {
		return fmt.Errorf("valuation.sweep_step_pct must be positive")
	}
	if c.Valuation.SweepMaxPct < c.Valuation.SweepMinPct {
		return fmt.Errorf("valuation.sweep_max_pct must not be below sweep_min_pct")
	}
	return nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SECDCF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// EDGAR defaults (SEC fair-access policy: identify yourself, stay well under 10 req/s)
	v.SetDefault("edgar.user_agent", DefaultUserAgent)
	v.SetDefault("edgar.data_url", "https://data.sec.gov")
	v.SetDefault("edgar.tickers_url", "https://www.sec.gov/files/company_tickers.json")
	v.SetDefault("edgar.feed_url", "https://www.sec.gov/cgi-bin/browse-edgar")
	v.SetDefault("edgar.filing_source", "submissions")
	v.SetDefault("edgar.request_delay", "200ms")
	v.SetDefault("edgar.timeout", "30s")

	// Paths
	v.SetDefault("paths.out_root", "tickers")
	v.SetDefault("paths.cache_dir", "db")
	v.SetDefault("paths.ticker_list", "db/top_tickers.json")

	v.SetDefault("defaults.ticker", "AAPL")

	// Valuation defaults (percent)
	v.SetDefault("valuation.years", 5)
	v.SetDefault("valuation.growth_pct", 5.0)
	v.SetDefault("valuation.terminal_growth_pct", 2.5)
	v.SetDefault("valuation.discount_pct", 10.0)
	v.SetDefault("valuation.sweep_min_pct", 4.0)
	v.SetDefault("valuation.sweep_max_pct", 20.0)
	v.SetDefault("valuation.sweep_step_pct", 0.25)

	// Price lookup
	v.SetDefault("price.mode", "none")
	v.SetDefault("price.base_url", "https://stooq.com/q/d/l/")
	v.SetDefault("price.country_suffix", "US")
	v.SetDefault("price.timeout", "10s")

	// Rendering
	v.SetDefault("render.stylesheet_url", "https://alaskamoves.us/styles/css/dcf.css")
	v.SetDefault("render.chart_js_url", "https://cdn.jsdelivr.net/npm/chart.js")
	v.SetDefault("render.site_name", "Alaska Transportation & Trucking L.L.C.")
	v.SetDefault("render.site_url", "https://alaskamoves.us/index.html")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads the SEC contact string from the environment.
// EDGAR_USER_AGENT is honoured as well since other EDGAR tooling uses that name.
func overrideFromEnv(cfg *Config) {
	if ua := os.Getenv("SECDCF_EDGAR_USER_AGENT"); ua != "" {
		cfg.EDGAR.UserAgent = ua
	} else if ua := os.Getenv("EDGAR_USER_AGENT"); ua != "" {
		cfg.EDGAR.UserAgent = ua
	}
}

// loadDotEnv loads ./.env into the process environment. Existing variables win.
func loadDotEnv() {
	_ = godotenv.Load()
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
