package mailrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"schoolnews/internal/outcome"
	logx "schoolnews/pkg/logx"
)

// HTTPConfig configures the REST relay.
type HTTPConfig struct {
	Endpoint  string
	PublicKey string
	Timeout   time.Duration
	Client    *http.Client // optional
}

type httpRelay struct {
	cfg    HTTPConfig
	client *http.Client
	log    logx.Logger
}

// payload is the EmailJS send request body.
type payload struct {
	ServiceID      string `json:"service_id"`
	TemplateID     string `json:"template_id"`
	UserID         string `json:"user_id"`
	TemplateParams Params `json:"template_params"`
}

// NewHTTP returns a relay posting to cfg.Endpoint.
func NewHTTP(cfg HTTPConfig, log logx.Logger) (Relay, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("mail endpoint is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &httpRelay{
		cfg:    cfg,
		client: client,
		log:    log.With(logx.String("comp", "mailrelay"), logx.String("driver", "http")),
	}, nil
}

func (r *httpRelay) Send(ctx context.Context, serviceID, templateID string, p Params) error {
	const op = "mail.send"
	params, err := Prepare(p)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload{
		ServiceID:      serviceID,
		TemplateID:     templateID,
		UserID:         r.cfg.PublicKey,
		TemplateParams: params,
	})
	if err != nil {
		return outcome.Wrap(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return outcome.Wrap(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return outcome.New(outcome.KindTransport, op, err)
	}
	defer resp.Body.Close()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return outcome.New(outcome.KindTransport, op,
			fmt.Errorf("relay status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}
	r.log.Debug("email sent",
		logx.String("to", params[ParamRecipient]),
		logx.Int("status", resp.StatusCode),
		logx.Duration("took", time.Since(start)))
	return nil
}
