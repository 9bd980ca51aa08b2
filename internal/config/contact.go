package config

import (
	"os"
	"strings"
)

// SettingSource represents where an effective setting comes from.
type SettingSource string

const (
	SourceEnv     SettingSource = "env"
	SourceConfig  SettingSource = "config"
	SourceDefault SettingSource = "default"
)

// SettingStatus describes one effective setting for the status command.
type SettingStatus struct {
	Name   string        `json:"name"`
	Source SettingSource `json:"source"`
	Value  string        `json:"value"`
	Warn   string        `json:"warn,omitempty"`
}

// CheckSettings returns the status of the settings operators most often get wrong.
func CheckSettings(cfg *Config) []SettingStatus {
	ua := SettingStatus{
		Name:   "SEC User-Agent",
		Source: sourceOf(cfg.EDGAR.UserAgent, DefaultUserAgent, "SECDCF_EDGAR_USER_AGENT", "EDGAR_USER_AGENT"),
		Value:  maskContact(cfg.EDGAR.UserAgent),
	}
	if cfg.EDGAR.UserAgent == DefaultUserAgent || !strings.Contains(cfg.EDGAR.UserAgent, "@") {
		ua.Warn = "SEC expects a real contact e-mail; requests may be throttled"
	}

	return []SettingStatus{
		ua,
		{Name: "Filing source", Source: sourceOf(cfg.EDGAR.FilingSource, "submissions", "SECDCF_EDGAR_FILING_SOURCE"), Value: cfg.EDGAR.FilingSource},
		{Name: "Request delay", Source: sourceOf(cfg.EDGAR.RequestDelay.String(), "200ms", "SECDCF_EDGAR_REQUEST_DELAY"), Value: cfg.EDGAR.RequestDelay.String()},
		{Name: "Output root", Source: sourceOf(cfg.Paths.OutRoot, "tickers", "SECDCF_PATHS_OUT_ROOT"), Value: cfg.Paths.OutRoot},
		{Name: "Price mode", Source: sourceOf(cfg.Price.Mode, "none", "SECDCF_PRICE_MODE"), Value: cfg.Price.Mode},
	}
}

// sourceOf reports whether value came from one of envVars, a config file or the default.
func sourceOf(value, def string, envVars ...string) SettingSource {
	for _, e := range envVars {
		if os.Getenv(e) != "" {
			return SourceEnv
		}
	}
	if value == def {
		return SourceDefault
	}
	return SourceConfig
}

// maskContact hides the local part of an e-mail address inside a User-Agent,
// e.g. "acme/1.0 (jdoe@acme.com)" -> "acme/1.0 (j***@acme.com)".
func maskContact(ua string) string {
	at := strings.Index(ua, "@")
	if at <= 0 {
		return ua
	}
	start := strings.LastIndexAny(ua[:at], " (<") + 1
	if at-start <= 1 {
		return ua
	}
	return ua[:start+1] + "***" + ua[at:]
}
