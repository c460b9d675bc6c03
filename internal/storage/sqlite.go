package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	logx "schoolnews/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteClient struct {
	db  *sql.DB
	log logx.Logger
}

type sqliteCollection struct {
	c    *sqliteClient
	name string
}

func openSQLite(ctx context.Context, cfg Config, log logx.Logger) (Client, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("sqlite dsn is required")
	}
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &sqliteClient{db: db, log: log.With(logx.String("driver", "sqlite"))}

	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous = NORMAL")

	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *sqliteClient) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, string(b))
	return err
}

func (c *sqliteClient) Collection(name string) Collection {
	return &sqliteCollection{c: c, name: name}
}

func (c *sqliteClient) Ping(ctx context.Context) error {
	if c == nil || c.db == nil {
		return ErrClosed
	}
	var one int
	return c.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

func (c *sqliteClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (s *sqliteCollection) All(ctx context.Context) ([]Document, error) {
	rows, err := s.c.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY created_at, id`, s.name)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

func (s *sqliteCollection) Find(ctx context.Context, q Query) ([]Document, error) {
	if err := checkQuery(q); err != nil {
		return nil, err
	}
	var b strings.Builder
	args := []any{s.name}
	b.WriteString(`SELECT id, data FROM documents WHERE collection = ?`)
	if q.Field != "" {
		b.WriteString(` AND json_extract(data, ?) = ?`)
		args = append(args, "$."+q.Field, q.Equals)
	}
	if q.OrderBy != "" {
		b.WriteString(` ORDER BY json_extract(data, ?)`)
		args = append(args, "$."+q.OrderBy)
		if q.Desc {
			b.WriteString(` DESC`)
		}
		b.WriteString(`, created_at`)
		if q.Desc {
			b.WriteString(` DESC`)
		}
	} else {
		b.WriteString(` ORDER BY created_at, id`)
	}

	rows, err := s.c.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

func (s *sqliteCollection) Set(ctx context.Context, id string, data map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("document id is required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.c.db.ExecContext(ctx,
		`INSERT INTO documents(collection, id, data, created_at) VALUES(?,?,?,?)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data`,
		s.name, id, string(raw), time.Now().UnixNano(),
	)
	return err
}

func (s *sqliteCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *sqliteCollection) Delete(ctx context.Context, id string) error {
	_, err := s.c.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, s.name, id)
	return err
}

func scanDocuments(rows *sql.Rows) ([]Document, error) {
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var (
			id  string
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var data map[string]any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		out = append(out, Document{ID: id, Data: data})
	}
	return out, rows.Err()
}
