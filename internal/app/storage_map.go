package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/xo/dburl"

	"schoolnews/internal/backend"
	"schoolnews/internal/config"
	"schoolnews/internal/storage"
)

func mapBackendOptions(cfg *config.Config) (backend.Options, error) {
	rc := cfg.Remote
	connect, err := config.ParseDurationOrDefault("remote.connect_timeout", rc.ConnectTimeout, 5*time.Second)
	if err != nil {
		return backend.Options{}, err
	}
	sc := storage.Config{Driver: strings.ToLower(strings.TrimSpace(rc.Driver)), DSN: strings.TrimSpace(rc.DSN)}
	if raw := strings.TrimSpace(rc.URL); raw != "" {
		if sc, err = parseRemoteURL(raw); err != nil {
			return backend.Options{}, err
		}
	}
	if sc.Driver == "sqlite" || sc.Driver == "sqlite3" {
		if sc.BusyTimeout, err = config.ParseDurationOrDefault("remote.busy_timeout", rc.BusyTimeout, time.Second); err != nil {
			return backend.Options{}, err
		}
	}
	return backend.Options{
		ProjectID:      strings.TrimSpace(rc.ProjectID),
		APIKey:         rc.APIKey,
		Storage:        sc,
		ConnectTimeout: connect,
	}, nil
}

func mapLocalConfig(cfg *config.Config) (storage.LocalConfig, error) {
	lc := cfg.Local
	driver := strings.ToLower(strings.TrimSpace(lc.Driver))
	switch driver {
	case "", "file":
		if strings.TrimSpace(lc.Path) == "" {
			return storage.LocalConfig{}, fmt.Errorf("local.path is required when local.driver=file")
		}
		return storage.LocalConfig{Driver: "file", Path: strings.TrimSpace(lc.Path)}, nil
	case "memory":
		return storage.LocalConfig{Driver: "memory"}, nil
	default:
		return storage.LocalConfig{}, fmt.Errorf("unknown local.driver: %s", lc.Driver)
	}
}

// parseRemoteURL maps a database URL onto a storage driver. Only SQLite URLs
// (sqlite:, sq:, sqlite3:) are supported.
func parseRemoteURL(raw string) (storage.Config, error) {
	u, err := dburl.Parse(raw)
	if err != nil {
		return storage.Config{}, fmt.Errorf("remote.url: %w", err)
	}
	switch u.Driver {
	case "sqlite3", "sqlite":
		return storage.Config{Driver: "sqlite", DSN: u.DSN}, nil
	default:
		return storage.Config{}, fmt.Errorf("remote.url: unsupported database %q", u.Driver)
	}
}
