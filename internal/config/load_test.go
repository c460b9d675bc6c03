package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Collections.Articles != "articulos" || cfg.Collections.Subscribers != "suscriptores" {
		t.Fatalf("unexpected collection defaults: %+v", cfg.Collections)
	}
	if cfg.Notify.ExcerptLength != 200 || cfg.Notify.Ellipsis != "..." {
		t.Fatalf("unexpected notify defaults: %+v", cfg.Notify)
	}
	if cfg.Local.ArticlesKey != "articulos" {
		t.Fatalf("unexpected local key %q", cfg.Local.ArticlesKey)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
remote:
  driver: memory
  project_id: school-news
articles:
  locale: en-US
notify:
  excerpt_length: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.Driver != "memory" || cfg.Remote.ProjectID != "school-news" {
		t.Fatalf("unexpected remote: %+v", cfg.Remote)
	}
	// Omitted keys keep their defaults.
	if cfg.Remote.ConnectTimeout != "5s" {
		t.Fatalf("expected default connect timeout, got %q", cfg.Remote.ConnectTimeout)
	}
	if cfg.Articles.Locale != "en-US" || cfg.Notify.ExcerptLength != 50 {
		t.Fatalf("unexpected values: %+v %+v", cfg.Articles, cfg.Notify)
	}
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.Driver != "sqlite" {
		t.Fatalf("expected default driver, got %q", cfg.Remote.Driver)
	}
}

func TestLoadRejectsUnknownFieldsAndTrailingData(t *testing.T) {
	cases := map[string]string{
		"unknown.json":  `{"remote": {"driver": "sqlite", "colour": "red"}}`,
		"trailing.json": `{"remote": {}} {"local": {}}`,
		"unknown.yaml":  "smtp:\n  host: x\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, name, content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCHOOLNEWS_REMOTE_PROJECT_ID", "from-env")
	t.Setenv("SCHOOLNEWS_MAIL_PUBLIC_KEY", "pk_123")
	path := writeFile(t, "config.json", `{"remote": {"project_id": "from-file"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.ProjectID != "from-env" {
		t.Fatalf("env should win over file, got %q", cfg.Remote.ProjectID)
	}
	if cfg.Mail.PublicKey != "pk_123" {
		t.Fatalf("expected public key from env, got %q", cfg.Mail.PublicKey)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad duration", func(c *Config) { c.Remote.ConnectTimeout = "soon" }, "remote.connect_timeout"},
		{"negative excerpt", func(c *Config) { c.Notify.ExcerptLength = -1 }, "excerpt_length"},
		{"empty collection", func(c *Config) { c.Collections.Admins = " " }, "collections.admins"},
		{"http without ids", func(c *Config) { c.Mail.Driver = "http" }, "service_id"},
		{"unknown mail driver", func(c *Config) { c.Mail.Driver = "pigeon" }, "unknown mail.driver"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tc.want)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestParseDurationOrDefault(t *testing.T) {
	d, err := ParseDurationOrDefault("x", "", 3*time.Second)
	if err != nil || d != 3*time.Second {
		t.Fatalf("got %v, %v", d, err)
	}
	d, err = ParseDurationOrDefault("x", "250ms", time.Second)
	if err != nil || d != 250*time.Millisecond {
		t.Fatalf("got %v, %v", d, err)
	}
	if _, err := ParseDurationField("x", "-1s"); err == nil {
		t.Fatalf("expected negative duration error")
	}
}
