// Package mailrelay sends one templated e-mail per call through a hosted
// relay (EmailJS-compatible REST API) or records it in the log.
package mailrelay

import (
	"context"
	"errors"
	"strings"

	"schoolnews/internal/outcome"
	logx "schoolnews/pkg/logx"
)

// Template parameter keys. They must match the keys registered with the
// relay template exactly.
const (
	ParamRecipient     = "destinatario"
	ParamRecipientName = "nombreDestinatario"
	ParamArticleTitle  = "tituloArticulo"
	ParamArticleBody   = "contenidoArticulo"
)

// DefaultBody replaces an empty ParamArticleBody.
const DefaultBody = "Nuevo artículo disponible"

// Params is the template parameter set of a single e-mail.
type Params map[string]string

// Relay sends one e-mail.
type Relay interface {
	Send(ctx context.Context, serviceID, templateID string, p Params) error
}

var ErrMissingParams = errors.New("missing required template parameters")

// Prepare validates p and returns a copy restricted to the registered keys.
func Prepare(p Params) (Params, error) {
	var missing []string
	for _, k := range []string{ParamRecipient, ParamRecipientName, ParamArticleTitle} {
		if strings.TrimSpace(p[k]) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, outcome.New(outcome.KindValidation, "mail.send",
			errors.Join(ErrMissingParams, errors.New(strings.Join(missing, ", "))))
	}
	body := p[ParamArticleBody]
	if body == "" {
		body = DefaultBody
	}
	return Params{
		ParamRecipient:     p[ParamRecipient],
		ParamRecipientName: p[ParamRecipientName],
		ParamArticleTitle:  p[ParamArticleTitle],
		ParamArticleBody:   body,
	}, nil
}

// logRelay delivers nothing; it records each send.
type logRelay struct {
	log logx.Logger
}

// NewLog returns a relay that only logs. Useful for development and demos.
func NewLog(log logx.Logger) Relay {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &logRelay{log: log.With(logx.String("comp", "mailrelay"), logx.String("driver", "log"))}
}

func (r *logRelay) Send(ctx context.Context, serviceID, templateID string, p Params) error {
	if err := ctx.Err(); err != nil {
		return outcome.New(outcome.KindTransport, "mail.send", err)
	}
	params, err := Prepare(p)
	if err != nil {
		return err
	}
	r.log.Info("email not delivered (log relay)",
		logx.String("service", serviceID),
		logx.String("template", templateID),
		logx.String("to", params[ParamRecipient]),
		logx.String("title", params[ParamArticleTitle]))
	return nil
}
