package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the application configuration file. A
// configuration error here is fatal for the process: without at least one
// feed and one webhook there is nothing to do.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("no feeds given in config")
	}
	if len(cfg.Webhooks) == 0 {
		return fmt.Errorf("no webhooks given in config")
	}

	for i, feed := range cfg.Feeds {
		if err := validateURL(feed.URL); err != nil {
			return fmt.Errorf("feed at index %d: %w", i, err)
		}
	}

	for i, webhook := range cfg.Webhooks {
		if err := validateURL(webhook); err != nil {
			return fmt.Errorf("webhook at index %d: %w", i, err)
		}
	}

	if hc := cfg.HealthCheck; hc != nil {
		if err := validateURL(hc.Endpoint); err != nil {
			return fmt.Errorf("health check endpoint: %w", err)
		}
		if hc.Interval < 1 {
			return fmt.Errorf("health check interval must be at least 1 second")
		}
		if hc.Method == "" {
			hc.Method = "GET"
		}
	}

	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}

	return nil
}
