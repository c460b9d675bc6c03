// Package articles stores published articles in the remote document store,
// or in local storage when the remote store was not selected at startup.
//
// The store performs no authorization; callers gate Create on
// publishers.Authority.IsPublisher.
package articles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"schoolnews/internal/backend"
	"schoolnews/internal/outcome"
	"schoolnews/internal/storage"
	logx "schoolnews/pkg/logx"
)

type Store struct {
	log logx.Logger

	remote storage.Collection // nil in local mode
	local  storage.KV

	key    string
	locale string
	now    func() time.Time
	newID  func(time.Time) string

	// serializes read-modify-write of the local list
	mu sync.Mutex
}

func New(sel backend.Selection, local storage.KV, opt Options, log logx.Logger) *Store {
	if log.IsZero() {
		log = logx.Nop()
	}
	if opt.Collection == "" {
		opt.Collection = "articulos"
	}
	if opt.LocalKey == "" {
		opt.LocalKey = "articulos"
	}
	if opt.Locale == "" {
		opt.Locale = "es-ES"
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.NewID == nil {
		opt.NewID = NewID
	}
	return &Store{
		log:    log.With(logx.String("comp", "articles"), logx.String("mode", sel.Mode().String())),
		remote: sel.Collection(opt.Collection),
		local:  local,
		key:    opt.LocalKey,
		locale: opt.Locale,
		now:    opt.Now,
		newID:  opt.NewID,
	}
}

// Create validates d and persists a new article. The generated record is not
// returned; callers re-read with List or Get.
func (s *Store) Create(ctx context.Context, d Draft) error {
	const op = "articles.create"
	if err := validate(op, d); err != nil {
		return err
	}

	now := s.now()
	a := Article{
		ID:                 s.newID(now),
		Title:              d.Title,
		BannerURL:          d.BannerURL,
		Body:               d.Body,
		PublishedAt:        now.UTC().Format(TimeLayout),
		PublishedAtDisplay: DisplayDate(now, s.locale),
		AuthorName:         d.AuthorName,
		AuthorEmail:        d.AuthorEmail,
	}

	if s.remote != nil {
		data, err := storage.Encode(a)
		if err != nil {
			return outcome.Wrap(op, err)
		}
		if err := s.remote.Set(ctx, a.ID, data); err != nil {
			return outcome.Wrap(op, err)
		}
		s.log.Info("article saved to remote store", logx.String("id", a.ID), logx.String("title", a.Title))
		return nil
	}

	if s.local == nil {
		return outcome.Unavailable(op)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.readLocal()
	if err != nil {
		return outcome.Wrap(op, err)
	}
	// Newest first, so List needs no sort in local mode.
	list = append([]Article{a}, list...)
	if err := s.writeLocal(list); err != nil {
		return outcome.Wrap(op, err)
	}
	s.log.Info("article saved locally", logx.String("id", a.ID), logx.String("title", a.Title))
	return nil
}

// Save is Create reporting only success.
func (s *Store) Save(ctx context.Context, d Draft) bool {
	if err := s.Create(ctx, d); err != nil {
		s.log.Error("save article failed", logx.String("kind", outcome.KindOf(err).String()), logx.Err(err))
		return false
	}
	return true
}

// List returns every article, newest first.
func (s *Store) List(ctx context.Context) ([]Article, error) {
	const op = "articles.list"
	if s.remote != nil {
		docs, err := s.remote.Find(ctx, storage.Query{OrderBy: "publishedAt", Desc: true})
		if err != nil {
			return nil, outcome.Wrap(op, err)
		}
		out := make([]Article, 0, len(docs))
		for _, doc := range docs {
			var a Article
			if err := storage.Decode(doc.Data, &a); err != nil {
				return nil, outcome.Wrap(op, err)
			}
			if a.ID == "" {
				a.ID = doc.ID
			}
			out = append(out, a)
		}
		return out, nil
	}

	if s.local == nil {
		return nil, outcome.Unavailable(op)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.readLocal()
	if err != nil {
		return nil, outcome.Wrap(op, err)
	}
	return list, nil
}

// ListAll is List that never fails: errors are logged and yield an empty slice.
func (s *Store) ListAll(ctx context.Context) []Article {
	list, err := s.List(ctx)
	if err != nil {
		s.log.Error("list articles failed", logx.String("kind", outcome.KindOf(err).String()), logx.Err(err))
		return []Article{}
	}
	return list
}

// Get returns the article with id, or a KindNotFound error.
func (s *Store) Get(ctx context.Context, id string) (Article, error) {
	list, err := s.List(ctx)
	if err != nil {
		return Article{}, err
	}
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return Article{}, outcome.NotFound("articles.get", "article %q", id)
}

// Delete removes id from the active backend. Deleting a missing id succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "articles.delete"
	if strings.TrimSpace(id) == "" {
		return outcome.Validation(op, "id is required")
	}
	if s.remote != nil {
		if err := s.remote.Delete(ctx, id); err != nil {
			return outcome.Wrap(op, err)
		}
		s.log.Info("article deleted from remote store", logx.String("id", id))
		return nil
	}

	if s.local == nil {
		return outcome.Unavailable(op)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.readLocal()
	if err != nil {
		return outcome.Wrap(op, err)
	}
	kept := list[:0]
	for _, a := range list {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if err := s.writeLocal(kept); err != nil {
		return outcome.Wrap(op, err)
	}
	s.log.Info("article deleted locally", logx.String("id", id))
	return nil
}

// Remove is Delete reporting only success.
func (s *Store) Remove(ctx context.Context, id string) bool {
	if err := s.Delete(ctx, id); err != nil {
		s.log.Error("delete article failed", logx.String("id", id), logx.Err(err))
		return false
	}
	return true
}

func validate(op string, d Draft) error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.BannerURL) == "" {
		missing = append(missing, "bannerUrl")
	}
	if strings.TrimSpace(d.Body) == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return outcome.Validation(op, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *Store) readLocal() ([]Article, error) {
	raw, ok, err := s.local.Get(s.key)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Article{}, nil
	}
	var list []Article
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("local key %q: %w", s.key, err)
	}
	if list == nil {
		list = []Article{}
	}
	return list, nil
}

func (s *Store) writeLocal(list []Article) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.local.Set(s.key, string(b))
}
