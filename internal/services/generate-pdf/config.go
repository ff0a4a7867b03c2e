package generatepdf

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		URL: "http://localhost:5000/api/generate-pdf",
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
	return nil
}
