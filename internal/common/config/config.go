// internal/common/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Download DownloadConfig `mapstructure:"download"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig locates the approval backend.
type APIConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	CheckApprovalPath string `mapstructure:"check_approval_path"`
	GeneratePDFPath   string `mapstructure:"generate_pdf_path"`
	Timeout           int    `mapstructure:"timeout"` // milliseconds, 0 = transport default
}

// CheckApprovalURL joins the base URL and the check-approval path.
func (a APIConfig) CheckApprovalURL() string {
	return joinURL(a.BaseURL, a.CheckApprovalPath)
}

// GeneratePDFURL joins the base URL and the generate-pdf path.
func (a APIConfig) GeneratePDFURL() string {
	return joinURL(a.BaseURL, a.GeneratePDFPath)
}

// TimeoutDuration converts Timeout to a time.Duration.
func (a APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Millisecond
}

// DownloadConfig controls where generated PDFs are written.
type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the prometheus endpoint of long-running sessions.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if cfg.Download.Dir == "" {
		return fmt.Errorf("download.dir is required")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics are enabled")
	}
	return nil
}
