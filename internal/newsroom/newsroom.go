// Package newsroom wires the publish flow: authorize, persist, notify.
package newsroom

import (
	"context"
	"strings"

	"schoolnews/internal/articles"
	"schoolnews/internal/eventbus"
	"schoolnews/internal/notifier"
	"schoolnews/internal/outcome"
	logx "schoolnews/pkg/logx"
)

type ArticleWriter interface {
	Create(ctx context.Context, d articles.Draft) error
}

type PublisherGate interface {
	IsPublisher(ctx context.Context, email string) bool
}

type Notifier interface {
	NotifySubscribers(ctx context.Context, a notifier.ArticleRef) notifier.Report
}

type Service struct {
	articles ArticleWriter
	gate     PublisherGate
	notifier Notifier // nil disables notifications
	bus      eventbus.Bus
	log      logx.Logger
}

func New(a ArticleWriter, gate PublisherGate, n Notifier, bus eventbus.Bus, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{articles: a, gate: gate, notifier: n, bus: bus, log: log.With(logx.String("comp", "newsroom"))}
}

// PublishResult reports a publish. Err covers authorization and persistence
// only; notification problems live in Report and never fail the publish.
type PublishResult struct {
	Err      error
	Notified bool
	Report   notifier.Report
}

func (r PublishResult) OK() bool { return r.Err == nil }

// Publish stores d on behalf of publisherEmail and notifies subscribers.
func (s *Service) Publish(ctx context.Context, publisherEmail string, d articles.Draft) PublishResult {
	const op = "newsroom.publish"
	publisherEmail = strings.TrimSpace(publisherEmail)
	if !s.gate.IsPublisher(ctx, publisherEmail) {
		s.log.Warn("publish refused: not a publisher", logx.String("email", publisherEmail))
		return PublishResult{Err: outcome.Authorization(op, "%q is not an authorized publisher", publisherEmail)}
	}
	if d.AuthorEmail == "" {
		d.AuthorEmail = publisherEmail
	}
	if err := s.articles.Create(ctx, d); err != nil {
		return PublishResult{Err: err}
	}
	s.publish(eventbus.ArticlePublished, eventbus.Published{Title: d.Title, AuthorEmail: d.AuthorEmail})

	if s.notifier == nil {
		s.log.Debug("notifications disabled")
		return PublishResult{}
	}
	rep := s.notifier.NotifySubscribers(ctx, notifier.ArticleRef{Title: d.Title, Body: d.Body})
	ev := eventbus.Notified{Title: d.Title, Sent: rep.Sent, Failed: rep.Failed}
	if rep.Err != nil {
		ev.Error = rep.Err.Error()
	}
	s.publish(eventbus.NotifyCompleted, ev)
	return PublishResult{Notified: true, Report: rep}
}

func (s *Service) publish(typ string, data any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Type: typ, Data: data})
}
