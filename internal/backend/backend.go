// Package backend decides, once per process, which store is authoritative.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"schoolnews/internal/storage"
	logx "schoolnews/pkg/logx"
)

// Mode is the storage mode chosen at startup.
type Mode int

const (
	ModeLocal Mode = iota
	ModeRemote
)

func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "local"
}

// Options is the fixed configuration used to reach the remote store.
type Options struct {
	ProjectID      string
	APIKey         string
	Storage        storage.Config
	ConnectTimeout time.Duration
}

var errNoProject = errors.New("remote project id is not configured")

// Selection is the immutable outcome of Select. The zero value is local mode
// with no remote handle.
type Selection struct {
	mode   Mode
	client storage.Client
}

// Remote returns a remote-mode selection around an already initialized client.
func Remote(c storage.Client) Selection {
	if c == nil {
		return Selection{}
	}
	return Selection{mode: ModeRemote, client: c}
}

// Local returns a local-mode selection.
func Local() Selection { return Selection{} }

func (s Selection) Mode() Mode     { return s.mode }
func (s Selection) IsRemote() bool { return s.mode == ModeRemote }

// Collection returns the named remote collection, or nil in local mode.
func (s Selection) Collection(name string) storage.Collection {
	if s.mode != ModeRemote || s.client == nil {
		return nil
	}
	return s.client.Collection(name)
}

// Close releases the remote handle, if any.
func (s Selection) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Select tries to initialize the remote store and falls back to local mode
// on any error. It never fails; the decision is not revisited later.
func Select(ctx context.Context, opt Options, log logx.Logger) Selection {
	if log.IsZero() {
		log = logx.Nop()
	}
	log = log.With(logx.String("comp", "backend"))

	c, err := connect(ctx, opt, log)
	if err != nil {
		log.Warn("remote store unavailable; using local storage",
			logx.String("driver", opt.Storage.Driver), logx.Err(err))
		return Local()
	}
	log.Info("remote store connected",
		logx.String("driver", opt.Storage.Driver),
		logx.String("project", opt.ProjectID),
		logx.Bool("credentials", strings.TrimSpace(opt.APIKey) != ""))
	return Remote(c)
}

func connect(ctx context.Context, opt Options, log logx.Logger) (storage.Client, error) {
	if strings.TrimSpace(opt.ProjectID) == "" {
		return nil, errNoProject
	}
	if opt.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opt.ConnectTimeout)
		defer cancel()
	}
	c, err := storage.Open(ctx, opt.Storage, log)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return c, nil
}
