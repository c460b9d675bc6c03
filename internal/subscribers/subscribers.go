// Package subscribers stores newsletter subscriptions. It is remote-only:
// without a remote backend every operation reports BackendUnavailable.
package subscribers

import (
	"context"
	"strings"
	"time"

	"schoolnews/internal/backend"
	"schoolnews/internal/outcome"
	"schoolnews/internal/storage"
	logx "schoolnews/pkg/logx"
)

// Subscriber is a stored subscription. ID is assigned by the backend and is
// not part of the persisted document.
type Subscriber struct {
	ID           string `json:"-"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	SubscribedAt string `json:"subscribedAt"`
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type Store struct {
	log logx.Logger
	col storage.Collection // nil unless remote
	now func() time.Time
}

// New returns a store over the named remote collection. now may be nil.
func New(sel backend.Selection, collection string, now func() time.Time, log logx.Logger) *Store {
	if log.IsZero() {
		log = logx.Nop()
	}
	if collection == "" {
		collection = "suscriptores"
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		log: log.With(logx.String("comp", "subscribers")),
		col: sel.Collection(collection),
		now: now,
	}
}

// Create stores a new subscriber. Emails are matched exactly as received.
//
// The duplicate check and the write are not atomic: two concurrent calls for
// the same email can both succeed.
func (s *Store) Create(ctx context.Context, name, email string) error {
	const op = "subscribers.create"
	if s.col == nil {
		return outcome.Unavailable(op)
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return outcome.Validation(op, "name and email are required")
	}

	existing, err := s.col.Find(ctx, storage.Query{Field: "email", Equals: email})
	if err != nil {
		return outcome.Wrap(op, err)
	}
	if len(existing) > 0 {
		s.log.Warn("email already subscribed", logx.String("email", email))
		return outcome.Duplicate(op, "email %q already subscribed", email)
	}

	data, err := storage.Encode(Subscriber{
		Name:         name,
		Email:        email,
		SubscribedAt: s.now().UTC().Format(timeLayout),
	})
	if err != nil {
		return outcome.Wrap(op, err)
	}
	id, err := s.col.Add(ctx, data)
	if err != nil {
		return outcome.Wrap(op, err)
	}
	s.log.Info("subscriber saved", logx.String("id", id), logx.String("email", email))
	return nil
}

// Subscribe is Create reporting only success.
func (s *Store) Subscribe(ctx context.Context, name, email string) bool {
	if err := s.Create(ctx, name, email); err != nil {
		s.log.Error("subscribe failed", logx.String("kind", outcome.KindOf(err).String()), logx.Err(err))
		return false
	}
	return true
}

// List returns every subscriber with its backend id. Order is unspecified.
func (s *Store) List(ctx context.Context) ([]Subscriber, error) {
	const op = "subscribers.list"
	if s.col == nil {
		return nil, outcome.Unavailable(op)
	}
	docs, err := s.col.All(ctx)
	if err != nil {
		return nil, outcome.Wrap(op, err)
	}
	out := make([]Subscriber, 0, len(docs))
	for _, d := range docs {
		var sub Subscriber
		if err := storage.Decode(d.Data, &sub); err != nil {
			return nil, outcome.Wrap(op, err)
		}
		sub.ID = d.ID
		out = append(out, sub)
	}
	s.log.Debug("subscribers loaded", logx.Int("count", len(out)))
	return out, nil
}

// ListAll is List that never fails: errors are logged and yield an empty slice.
func (s *Store) ListAll(ctx context.Context) []Subscriber {
	list, err := s.List(ctx)
	if err != nil {
		s.log.Warn("list subscribers failed; treating as empty", logx.Err(err))
		return []Subscriber{}
	}
	return list
}
