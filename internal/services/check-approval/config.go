package checkapproval

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	URL          string        `mapstructure:"url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		URL:          "http://localhost:5000/api/check-approval",
		MaxBodyBytes: 1 << 20,
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url must be absolute, got %q", c.URL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}
