package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	ProfilesDir  string `long:"profiles-dir" env:"PROFILES_DIR" default:"./profiles" description:"Directory containing client profile files"`
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./media-comb.db" description:"Path to the sqlite database file"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Webhook configuration
	WebhookSecret string `long:"webhook-secret" env:"MELTWATER_WEBHOOK_SECRET" description:"Shared secret for Meltwater webhook signature verification (optional)"`

	// Upstream endpoints, overridable for testing
	TwitterBaseURL   string `long:"twitter-base-url" env:"TWITTER_BASE_URL" default:"https://api.twitter.com/2" description:"Twitter API base URL"`
	NewsBaseURL      string `long:"news-base-url" env:"NEWS_BASE_URL" default:"https://newsapi.org/v2" description:"NewsAPI base URL"`
	MeltwaterBaseURL string `long:"meltwater-base-url" env:"MELTWATER_BASE_URL" default:"https://api.meltwater.com/v2" description:"Meltwater API base URL"`
	SheetsBaseURL    string `long:"sheets-base-url" env:"SHEETS_BASE_URL" default:"https://sheets.googleapis.com/v4/spreadsheets" description:"Google Sheets API base URL"`

	// Outbound request behavior
	HTTPTimeout    int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"Timeout for outbound requests in seconds"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"Media Comb/1.0" description:"User agent string for HTTP requests"`
	ExtractContent bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Extract full article content for news mentions without a body"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:             raw.Port,
		ProfilesDir:      raw.ProfilesDir,
		DBPath:           raw.DBPath,
		APIAccessKey:     raw.APIAccessKey,
		WebhookSecret:    raw.WebhookSecret,
		TwitterBaseURL:   raw.TwitterBaseURL,
		NewsBaseURL:      raw.NewsBaseURL,
		MeltwaterBaseURL: raw.MeltwaterBaseURL,
		SheetsBaseURL:    raw.SheetsBaseURL,
		HTTPTimeout:      raw.HTTPTimeout,
		UserAgent:        raw.UserAgent,
		ExtractContent:   raw.ExtractContent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
