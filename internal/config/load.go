package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Load reads path (JSON or YAML) on top of Default(), applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := parseFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	jb, err := toJSON(path, b)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("invalid config: trailing data")
		}
		return err
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	for path, raw := range map[string]string{
		"remote.connect_timeout": c.Remote.ConnectTimeout,
		"remote.busy_timeout":    c.Remote.BusyTimeout,
		"mail.timeout":           c.Mail.Timeout,
	} {
		if _, err := ParseDurationField(path, raw); err != nil {
			return err
		}
	}
	if c.Notify.ExcerptLength < 0 {
		return fmt.Errorf("notify.excerpt_length must be >= 0")
	}
	if c.Notify.RatePerSec < 0 {
		return fmt.Errorf("notify.rate_per_sec must be >= 0")
	}
	cols := c.Collections
	for name, v := range map[string]string{
		"collections.articles":    cols.Articles,
		"collections.subscribers": cols.Subscribers,
		"collections.publishers":  cols.Publishers,
		"collections.admins":      cols.Admins,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Mail.Driver)) {
	case "", "none", "log":
	case "http":
		if strings.TrimSpace(c.Mail.Endpoint) == "" {
			return fmt.Errorf("mail.endpoint is required when mail.driver=http")
		}
		if strings.TrimSpace(c.Mail.ServiceID) == "" || strings.TrimSpace(c.Mail.TemplateID) == "" {
			return fmt.Errorf("mail.service_id and mail.template_id are required when mail.driver=http")
		}
	default:
		return fmt.Errorf("unknown mail.driver: %s", c.Mail.Driver)
	}
	return nil
}
