// Package app builds the newsroom from a loaded config: backend selection,
// stores, publisher authority, mail relay and dispatcher.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"schoolnews/internal/articles"
	"schoolnews/internal/backend"
	"schoolnews/internal/config"
	"schoolnews/internal/eventbus"
	"schoolnews/internal/mailrelay"
	"schoolnews/internal/newsroom"
	"schoolnews/internal/notifier"
	"schoolnews/internal/publishers"
	"schoolnews/internal/storage"
	"schoolnews/internal/subscribers"
	logx "schoolnews/pkg/logx"
)

type App struct {
	Config    *config.Config
	Selection backend.Selection
	Bus       eventbus.Bus

	Articles    *articles.Store
	Subscribers *subscribers.Store
	Publishers  *publishers.Authority
	Notifier    *notifier.Dispatcher // nil when mail.driver=none
	Newsroom    *newsroom.Service

	log logx.Logger
}

// Build selects the backend once and wires every component to it.
func Build(ctx context.Context, cfg *config.Config, log logx.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	bopt, err := mapBackendOptions(cfg)
	if err != nil {
		return nil, err
	}
	sel := backend.Select(ctx, bopt, log)

	var local storage.KV
	if !sel.IsRemote() {
		lc, err := mapLocalConfig(cfg)
		if err != nil {
			return nil, err
		}
		if local, err = storage.OpenLocal(lc, log); err != nil {
			return nil, err
		}
	}

	a := &App{Config: cfg, Selection: sel, Bus: eventbus.New(), log: log}
	a.Articles = articles.New(sel, local, articles.Options{
		Collection: cfg.Collections.Articles,
		LocalKey:   cfg.Local.ArticlesKey,
		Locale:     cfg.Articles.Locale,
	}, log)
	a.Subscribers = subscribers.New(sel, cfg.Collections.Subscribers, nil, log)
	a.Publishers = publishers.New(sel, publishers.Collections{
		Admins:     cfg.Collections.Admins,
		Publishers: cfg.Collections.Publishers,
	}, nil, log)

	relay, err := buildRelay(cfg.Mail, log)
	if err != nil {
		_ = sel.Close()
		return nil, err
	}
	var n newsroom.Notifier
	if relay != nil {
		a.Notifier = notifier.New(notifier.Config{
			ServiceID:     cfg.Mail.ServiceID,
			TemplateID:    cfg.Mail.TemplateID,
			ExcerptLength: cfg.Notify.ExcerptLength,
			Ellipsis:      cfg.Notify.Ellipsis,
			RatePerSec:    cfg.Notify.RatePerSec,
		}, relay, a.Subscribers, log)
		n = a.Notifier
	}
	a.Newsroom = newsroom.New(a.Articles, a.Publishers, n, a.Bus, log)
	return a, nil
}

func buildRelay(mc config.MailConfig, log logx.Logger) (mailrelay.Relay, error) {
	switch strings.ToLower(strings.TrimSpace(mc.Driver)) {
	case "", "none":
		return nil, nil
	case "log":
		return mailrelay.NewLog(log), nil
	case "http":
		timeout, err := config.ParseDurationOrDefault("mail.timeout", mc.Timeout, 15*time.Second)
		if err != nil {
			return nil, err
		}
		return mailrelay.NewHTTP(mailrelay.HTTPConfig{
			Endpoint:  mc.Endpoint,
			PublicKey: mc.PublicKey,
			Timeout:   timeout,
		}, log)
	default:
		return nil, errors.New("unknown mail.driver: " + mc.Driver)
	}
}

// Close releases the remote handle.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Selection.Close()
}

// LogEvents logs bus events until ctx is done or the returned stop is called.
func (a *App) LogEvents(ctx context.Context) (stop func()) {
	ch, unsub := a.Bus.Subscribe(16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", e.Type), logx.Any("data", e.Data))
			}
		}
	}()
	return func() {
		unsub()
		<-done
	}
}
