// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSearchPaths are the directories searched for config.yaml.
var DefaultSearchPaths = []string{"./configs", "."}

// Load reads configuration from config.yaml, config.<env>.yaml, .env and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(DefaultSearchPaths...)
}

// LoadFrom is Load with explicit search directories.
func LoadFrom(paths ...string) (*Config, error) {
	loadEnvFile(paths)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// API_BASE_URL overrides api.base_url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	_ = v.MergeInConfig() // optional

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.App.Environment = env

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "approval-checker")
	v.SetDefault("app.version", "dev")
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.check_approval_path", "/api/check-approval")
	v.SetDefault("api.generate_pdf_path", "/api/generate-pdf")
	v.SetDefault("api.timeout", 0)
	v.SetDefault("download.dir", ".")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", "")
}

func applyDefaults(cfg *Config) {
	if cfg.API.CheckApprovalPath == "" {
		cfg.API.CheckApprovalPath = "/api/check-approval"
	}
	if cfg.API.GeneratePDFPath == "" {
		cfg.API.GeneratePDFPath = "/api/generate-pdf"
	}
	if cfg.Download.Dir == "" {
		cfg.Download.Dir = "."
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func loadEnvFile(paths []string) {
	for _, dir := range paths {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			// existing environment wins over .env
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// expandEnvVars resolves ${VAR} placeholders inside string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
			v.Set(key, expanded)
		}
	}
}
