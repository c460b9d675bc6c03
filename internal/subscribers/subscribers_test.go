package subscribers

import (
	"context"
	"errors"
	"testing"
	"time"

	"schoolnews/internal/backend"
	"schoolnews/internal/outcome"
	"schoolnews/internal/storage"
	logx "schoolnews/pkg/logx"
)

func newStore() (*Store, *storage.MemoryClient) {
	c := storage.NewMemoryClient()
	now := func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	return New(backend.Remote(c), "suscriptores", now, logx.Nop()), c
}

func TestCreateAndList(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()
	if !s.Subscribe(ctx, "Juan Pérez", "juan@x.com") {
		t.Fatalf("subscribe failed")
	}
	if !s.Subscribe(ctx, "Ana", "ana@x.com") {
		t.Fatalf("subscribe failed")
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 subscribers, got %d", len(list))
	}
	for _, sub := range list {
		if sub.ID == "" {
			t.Fatalf("expected backend id on %+v", sub)
		}
		if sub.SubscribedAt != "2026-10-19T08:00:00.000Z" {
			t.Fatalf("unexpected subscribedAt %q", sub.SubscribedAt)
		}
	}
}

func TestEmailIsUnique(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()
	emails := []string{"a@x.com", "b@x.com", "a@x.com", "A@x.com", "b@x.com"}
	for _, e := range emails {
		_ = s.Create(ctx, "n", e)
	}
	if err := s.Create(ctx, "again", "a@x.com"); !outcome.Is(err, outcome.KindDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	seen := map[string]bool{}
	for _, sub := range s.ListAll(ctx) {
		if seen[sub.Email] {
			t.Fatalf("duplicate email stored: %s", sub.Email)
		}
		seen[sub.Email] = true
	}
	// Case-sensitive match: "A@x.com" is a different subscriber.
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct subscribers, got %d", len(seen))
	}
}

func TestCreateValidation(t *testing.T) {
	s, _ := newStore()
	for _, tc := range []struct{ name, email string }{{"", "a@x.com"}, {"n", ""}, {" ", " "}} {
		if err := s.Create(context.Background(), tc.name, tc.email); !outcome.Is(err, outcome.KindValidation) {
			t.Fatalf("Create(%q, %q) = %v, want validation", tc.name, tc.email, err)
		}
	}
}

func TestLocalModeIsUnavailable(t *testing.T) {
	s := New(backend.Local(), "", nil, logx.Nop())
	ctx := context.Background()
	if err := s.Create(ctx, "n", "a@x.com"); !outcome.Is(err, outcome.KindBackendUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if s.Subscribe(ctx, "n", "a@x.com") {
		t.Fatalf("subscribe must fail without a remote backend")
	}
	if got := s.ListAll(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestBackendErrorsAreDistinguishable(t *testing.T) {
	s, c := newStore()
	ctx := context.Background()
	if err := s.Create(ctx, "n", "a@x.com"); err != nil {
		t.Fatalf("create: %v", err)
	}
	c.FailWith(errors.New("connection reset"))
	err := s.Create(ctx, "n", "b@x.com")
	if err == nil || outcome.Is(err, outcome.KindDuplicate) {
		t.Fatalf("backend failure must not look like a duplicate: %v", err)
	}
	if _, err := s.List(ctx); err == nil {
		t.Fatalf("expected list error")
	}
}
