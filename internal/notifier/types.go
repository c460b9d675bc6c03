package notifier

import (
	"context"

	"schoolnews/internal/subscribers"
)

// Config controls the dispatcher.
type Config struct {
	ServiceID  string
	TemplateID string

	// ExcerptLength is counted in characters (runes). Defaults to 200.
	ExcerptLength int
	Ellipsis      string
	// RatePerSec throttles sends; <= 0 means unlimited.
	RatePerSec int
}

// SubscriberSource lists the notification recipients.
type SubscriberSource interface {
	List(ctx context.Context) ([]subscribers.Subscriber, error)
}

// ArticleRef is the part of a published article the e-mail needs.
type ArticleRef struct {
	Title string
	Body  string
}

// Report is the aggregate outcome of a fan-out.
//
// Err is set only when the recipient list could not be read; per-recipient
// failures are counted in Failed and never surfaced individually.
type Report struct {
	Sent   int
	Failed int
	Err    error
}

func (r Report) Attempted() int { return r.Sent + r.Failed }
