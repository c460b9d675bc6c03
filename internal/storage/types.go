package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDisabled   = errors.New("storage disabled")
	ErrClosed     = errors.New("storage closed")
	ErrBadField   = errors.New("invalid field name")
	ErrEmptyQuery = errors.New("query needs a field or an order")
)

// Config configures the document store.
//
// Driver values:
//   - "sqlite": SQLite database file
//   - "memory": process-local, lost on exit
//
// If Driver is empty or "none", the document store is disabled.
type Config struct {
	Driver      string
	DSN         string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// LocalConfig configures the local fallback store.
//
// Driver values:
//   - "file": JSON object persisted at Path
//   - "memory": process-local
type LocalConfig struct {
	Driver string
	Path   string
}

// Document is a stored record keyed by ID within its collection.
type Document struct {
	ID   string
	Data map[string]any
}

// Query selects documents of a collection.
//
// Field/Equals filter on equality of a top-level field; an empty Field means
// no filter. OrderBy sorts on a top-level field (ascending unless Desc).
type Query struct {
	Field   string
	Equals  any
	OrderBy string
	Desc    bool
}

// Collection is a named set of documents.
type Collection interface {
	All(ctx context.Context) ([]Document, error)
	Find(ctx context.Context, q Query) ([]Document, error)
	// Set writes data under id, replacing any existing document.
	Set(ctx context.Context, id string, data map[string]any) error
	// Add writes data under a backend-assigned id and returns it.
	Add(ctx context.Context, data map[string]any) (string, error)
	// Delete removes id. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error
}

// Client is a handle to an initialized document store.
type Client interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close() error
}

// KV is the local fallback store: string values under string keys.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}
