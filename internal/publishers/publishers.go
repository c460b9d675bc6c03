// Package publishers onboards article publishers.
//
// A publisher is created only when an existing admin authorizes it. The admin
// check happens once, at creation; removing the admin later does not revoke
// the publisher. IsPublisher is the gate callers apply before creating an
// article.
package publishers

import (
	"context"
	"strings"
	"time"

	"schoolnews/internal/backend"
	"schoolnews/internal/outcome"
	"schoolnews/internal/storage"
	logx "schoolnews/pkg/logx"
)

// Reason explains a failed onboarding. The string values are stable and
// shown to operators as is.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonInvalidData  Reason = "DATOS_INVALIDOS"
	ReasonInvalidAdmin Reason = "ADMIN_NO_VALIDO"
	ReasonDuplicate    Reason = "PUBLISHER_DUPLICADO"
	ReasonUnknown      Reason = "ERROR_DESCONOCIDO"
)

// Result is the terminal state of CreatePublisher.
type Result struct {
	OK     bool
	Reason Reason
	err    error
}

// Err maps the result onto the outcome taxonomy; nil on success.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return outcome.New(outcome.KindUnknown, "publishers.create", nil)
}

type Publisher struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	AuthorizedBy string `json:"authorizedBy"`
	RegisteredAt string `json:"registeredAt"`
}

type Admin struct {
	Email string `json:"email"`
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Collections names the remote collections the authority reads and writes.
type Collections struct {
	Admins     string
	Publishers string
}

type Authority struct {
	log        logx.Logger
	admins     storage.Collection
	publishers storage.Collection
	now        func() time.Time
}

func New(sel backend.Selection, cols Collections, now func() time.Time, log logx.Logger) *Authority {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cols.Admins == "" {
		cols.Admins = "admins"
	}
	if cols.Publishers == "" {
		cols.Publishers = "publishers"
	}
	if now == nil {
		now = time.Now
	}
	return &Authority{
		log:        log.With(logx.String("comp", "publishers")),
		admins:     sel.Collection(cols.Admins),
		publishers: sel.Collection(cols.Publishers),
		now:        now,
	}
}

// CreatePublisher runs the onboarding chain:
// validate input, check the admin, check uniqueness, write.
// Inputs are trimmed. The uniqueness check is not atomic with the write.
func (a *Authority) CreatePublisher(ctx context.Context, name, email, adminEmail string) Result {
	const op = "publishers.create"
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	adminEmail = strings.TrimSpace(adminEmail)

	fail := func(r Reason, err error) Result {
		a.log.Warn("publisher not created", logx.String("reason", string(r)), logx.String("email", email), logx.Err(err))
		return Result{Reason: r, err: err}
	}

	if a.admins == nil || a.publishers == nil {
		return fail(ReasonUnknown, outcome.Unavailable(op))
	}
	if name == "" || email == "" || adminEmail == "" {
		return fail(ReasonInvalidData, outcome.Validation(op, "name, email and admin email are required"))
	}

	isAdmin, err := exists(ctx, a.admins, adminEmail)
	if err != nil {
		return fail(ReasonUnknown, outcome.Wrap(op, err))
	}
	if !isAdmin {
		return fail(ReasonInvalidAdmin, outcome.Authorization(op, "%q is not an admin", adminEmail))
	}

	dup, err := exists(ctx, a.publishers, email)
	if err != nil {
		return fail(ReasonUnknown, outcome.Wrap(op, err))
	}
	if dup {
		return fail(ReasonDuplicate, outcome.Duplicate(op, "publisher %q already exists", email))
	}

	data, err := storage.Encode(Publisher{
		Name:         name,
		Email:        email,
		AuthorizedBy: adminEmail,
		RegisteredAt: a.now().UTC().Format(timeLayout),
	})
	if err != nil {
		return fail(ReasonUnknown, outcome.Wrap(op, err))
	}
	if _, err := a.publishers.Add(ctx, data); err != nil {
		return fail(ReasonUnknown, outcome.Wrap(op, err))
	}
	a.log.Info("publisher created", logx.String("email", email), logx.String("authorized_by", adminEmail))
	return Result{OK: true}
}

// IsAdmin reports whether email is in the admin set. Any error reads as false.
func (a *Authority) IsAdmin(ctx context.Context, email string) bool {
	return a.member(ctx, a.admins, "admin", email)
}

// IsPublisher reports whether email is a registered publisher. Any error
// reads as false.
func (a *Authority) IsPublisher(ctx context.Context, email string) bool {
	return a.member(ctx, a.publishers, "publisher", email)
}

// AddAdmin seeds the admin set. Admins are normally provisioned directly in
// the remote store; this exists for operating a self-hosted backend.
func (a *Authority) AddAdmin(ctx context.Context, email string) error {
	const op = "admins.add"
	email = strings.TrimSpace(email)
	if a.admins == nil {
		return outcome.Unavailable(op)
	}
	if email == "" {
		return outcome.Validation(op, "email is required")
	}
	ok, err := exists(ctx, a.admins, email)
	if err != nil {
		return outcome.Wrap(op, err)
	}
	if ok {
		return outcome.Duplicate(op, "admin %q already exists", email)
	}
	data, err := storage.Encode(Admin{Email: email})
	if err != nil {
		return outcome.Wrap(op, err)
	}
	if _, err := a.admins.Add(ctx, data); err != nil {
		return outcome.Wrap(op, err)
	}
	a.log.Info("admin added", logx.String("email", email))
	return nil
}

func (a *Authority) member(ctx context.Context, col storage.Collection, kind, email string) bool {
	if email == "" {
		return false
	}
	if col == nil {
		a.log.Error("membership check without remote store", logx.String("set", kind))
		return false
	}
	ok, err := exists(ctx, col, email)
	if err != nil {
		a.log.Error("membership check failed", logx.String("set", kind), logx.Err(err))
		return false
	}
	return ok
}

func exists(ctx context.Context, col storage.Collection, email string) (bool, error) {
	docs, err := col.Find(ctx, storage.Query{Field: "email", Equals: email})
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}
