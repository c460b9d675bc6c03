package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"

	logx "schoolnews/pkg/logx"
)

// Open initializes the configured document store.
// It returns ErrDisabled if the driver is empty or "none".
func Open(ctx context.Context, cfg Config, log logx.Logger) (Client, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, ErrDisabled
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "memory":
		return NewMemoryClient(), nil
	case "sqlite", "sqlite3":
		return openSQLite(ctx, cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}

// OpenLocal initializes the local fallback store.
func OpenLocal(cfg LocalConfig, log logx.Logger) (KV, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if log.IsZero() {
		log = logx.Nop()
	}
	switch driver {
	case "", "file":
		return openFileKV(cfg, log)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, errors.New("unknown local storage driver: " + driver)
	}
}

var fieldRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validField(name string) bool { return fieldRe.MatchString(name) }

func checkQuery(q Query) error {
	if q.Field == "" && q.OrderBy == "" {
		return ErrEmptyQuery
	}
	if q.Field != "" && !validField(q.Field) {
		return ErrBadField
	}
	if q.OrderBy != "" && !validField(q.OrderBy) {
		return ErrBadField
	}
	return nil
}
