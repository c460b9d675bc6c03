package notifier

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"schoolnews/internal/mailrelay"
	logx "schoolnews/pkg/logx"
)

type Dispatcher struct {
	cfg     Config
	relay   mailrelay.Relay
	subs    SubscriberSource
	limiter *rate.Limiter
	log     logx.Logger
}

func New(cfg Config, relay mailrelay.Relay, subs SubscriberSource, log logx.Logger) *Dispatcher {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = 200
	}
	if cfg.Ellipsis == "" {
		cfg.Ellipsis = "..."
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSec > 0 {
		// Token bucket: burst = rate per sec, so small lists go out at once.
		lim = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	}
	return &Dispatcher{
		cfg:     cfg,
		relay:   relay,
		subs:    subs,
		limiter: lim,
		log:     log.With(logx.String("comp", "notifier")),
	}
}

// NotifySubscribers e-mails every subscriber about a and waits for all sends.
// Zero subscribers is a success with Sent == 0.
func (d *Dispatcher) NotifySubscribers(ctx context.Context, a ArticleRef) Report {
	start := time.Now()
	list, err := d.subs.List(ctx)
	if err != nil {
		d.log.Error("cannot read subscribers; no notifications sent", logx.Err(err))
		return Report{Err: err}
	}
	if len(list) == 0 {
		d.log.Info("no subscribers to notify")
		return Report{}
	}

	d.log.Info("sending notifications", logx.Int("subscribers", len(list)), logx.String("title", a.Title))
	excerpt := Excerpt(a.Body, d.cfg.ExcerptLength, d.cfg.Ellipsis)

	var (
		wg     sync.WaitGroup
		sent   atomic.Int64
		failed atomic.Int64
	)
	wg.Add(len(list))
	for _, sub := range list {
		p := mailrelay.Params{
			mailrelay.ParamRecipient:     sub.Email,
			mailrelay.ParamRecipientName: sub.Name,
			mailrelay.ParamArticleTitle:  a.Title,
			mailrelay.ParamArticleBody:   excerpt,
		}
		go func() {
			defer wg.Done()
			if err := d.sendOne(ctx, p); err != nil {
				failed.Add(1)
				d.log.Warn("notification failed", logx.String("to", p[mailrelay.ParamRecipient]), logx.Err(err))
				return
			}
			sent.Add(1)
		}()
	}
	wg.Wait()

	r := Report{Sent: int(sent.Load()), Failed: int(failed.Load())}
	d.log.Info("notifications finished",
		logx.Int("sent", r.Sent), logx.Int("failed", r.Failed), logx.Duration("took", time.Since(start)))
	return r
}

func (d *Dispatcher) sendOne(ctx context.Context, p mailrelay.Params) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error("panic in mail relay", logx.Any("panic", rec), logx.String("stack", string(debug.Stack())))
			err = fmt.Errorf("relay panic: %v", rec)
		}
	}()
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	return d.relay.Send(ctx, d.cfg.ServiceID, d.cfg.TemplateID, p)
}

// Excerpt returns the first n runes of body followed by ellipsis.
func Excerpt(body string, n int, ellipsis string) string {
	r := []rune(body)
	if n >= 0 && len(r) > n {
		r = r[:n]
	}
	return string(r) + ellipsis
}
