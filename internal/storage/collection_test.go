package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	logx "schoolnews/pkg/logx"
)

func openTestSQLite(t *testing.T) Client {
	t.Helper()
	c, err := Open(context.Background(), Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "remote.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func clients(t *testing.T) map[string]Client {
	return map[string]Client{
		"memory": NewMemoryClient(),
		"sqlite": openTestSQLite(t),
	}
}

func TestCollectionSetFindDelete(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			col := c.Collection("articles")
			for _, d := range []struct{ id, at, author string }{
				{"a1", "2026-01-01T10:00:00.000Z", "ana@x.com"},
				{"a3", "2026-01-03T10:00:00.000Z", "bob@x.com"},
				{"a2", "2026-01-02T10:00:00.000Z", "ana@x.com"},
			} {
				if err := col.Set(ctx, d.id, map[string]any{"id": d.id, "publishedAt": d.at, "authorEmail": d.author}); err != nil {
					t.Fatalf("set %s: %v", d.id, err)
				}
			}

			ordered, err := col.Find(ctx, Query{OrderBy: "publishedAt", Desc: true})
			if err != nil {
				t.Fatalf("find ordered: %v", err)
			}
			if got := ids(ordered); !equal(got, []string{"a3", "a2", "a1"}) {
				t.Fatalf("unexpected order: %v", got)
			}

			byAuthor, err := col.Find(ctx, Query{Field: "authorEmail", Equals: "ana@x.com"})
			if err != nil {
				t.Fatalf("find by author: %v", err)
			}
			if len(byAuthor) != 2 {
				t.Fatalf("expected 2 docs for ana, got %d", len(byAuthor))
			}

			if err := col.Delete(ctx, "a2"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := col.Delete(ctx, "missing"); err != nil {
				t.Fatalf("delete missing should be a no-op: %v", err)
			}
			all, err := col.All(ctx)
			if err != nil {
				t.Fatalf("all: %v", err)
			}
			if got := ids(all); !equal(got, []string{"a1", "a3"}) {
				t.Fatalf("unexpected docs after delete: %v", got)
			}

			// Other collections are isolated.
			other, err := c.Collection("subscribers").All(ctx)
			if err != nil {
				t.Fatalf("all other: %v", err)
			}
			if len(other) != 0 {
				t.Fatalf("expected empty collection, got %d", len(other))
			}
		})
	}
}

func TestCollectionAddAssignsID(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			col := c.Collection("subscribers")
			id1, err := col.Add(ctx, map[string]any{"email": "a@x.com"})
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			id2, err := col.Add(ctx, map[string]any{"email": "b@x.com"})
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			if id1 == "" || id1 == id2 {
				t.Fatalf("expected distinct non-empty ids, got %q %q", id1, id2)
			}
			docs, err := col.Find(ctx, Query{Field: "email", Equals: "b@x.com"})
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(docs) != 1 || docs[0].ID != id2 {
				t.Fatalf("unexpected find result: %+v", docs)
			}
		})
	}
}

func TestCollectionRejectsBadQuery(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			col := c.Collection("x")
			if _, err := col.Find(context.Background(), Query{}); !errors.Is(err, ErrEmptyQuery) {
				t.Fatalf("expected ErrEmptyQuery, got %v", err)
			}
			if _, err := col.Find(context.Background(), Query{Field: "a') OR 1=1 --", Equals: "x"}); !errors.Is(err, ErrBadField) {
				t.Fatalf("expected ErrBadField, got %v", err)
			}
		})
	}
}

func TestMemoryClientFailWith(t *testing.T) {
	c := NewMemoryClient()
	boom := errors.New("network down")
	c.FailWith(boom)
	if err := c.Ping(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected injected error from Ping, got %v", err)
	}
	if _, err := c.Collection("a").Add(context.Background(), map[string]any{}); !errors.Is(err, boom) {
		t.Fatalf("expected injected error from Add, got %v", err)
	}
	c.FailWith(nil)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("expected healthy client, got %v", err)
	}
}

func TestOpenDrivers(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "none"}, logx.Nop()); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if _, err := Open(context.Background(), Config{Driver: "firestore"}, logx.Nop()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := Open(context.Background(), Config{Driver: "sqlite"}, logx.Nop()); err == nil {
		t.Fatalf("expected missing dsn error")
	}
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
