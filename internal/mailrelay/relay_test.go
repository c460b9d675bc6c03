package mailrelay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"schoolnews/internal/outcome"
	logx "schoolnews/pkg/logx"
)

func validParams() Params {
	return Params{
		ParamRecipient:     "juan@x.com",
		ParamRecipientName: "Juan",
		ParamArticleTitle:  "Feria de Ciencias",
		ParamArticleBody:   "La feria...",
	}
}

func TestPrepare(t *testing.T) {
	p := validParams()
	p["extra"] = "dropped"
	p[ParamArticleBody] = ""
	got, err := Prepare(p)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected exactly the 4 registered keys, got %v", got)
	}
	if got[ParamArticleBody] != DefaultBody {
		t.Fatalf("expected default body, got %q", got[ParamArticleBody])
	}

	delete(p, ParamRecipientName)
	if _, err := Prepare(p); !outcome.Is(err, outcome.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHTTPRelaySendsEmailJSPayload(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	relay, err := NewHTTP(HTTPConfig{Endpoint: srv.URL, PublicKey: "pk", Timeout: time.Second}, logx.Nop())
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	if err := relay.Send(context.Background(), "service_1", "template_1", validParams()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.ServiceID != "service_1" || got.TemplateID != "template_1" || got.UserID != "pk" {
		t.Fatalf("unexpected payload ids: %+v", got)
	}
	if got.TemplateParams[ParamRecipient] != "juan@x.com" || got.TemplateParams[ParamArticleTitle] != "Feria de Ciencias" {
		t.Fatalf("unexpected template params: %v", got.TemplateParams)
	}
}

func TestHTTPRelayNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The Public Key is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	relay, err := NewHTTP(HTTPConfig{Endpoint: srv.URL}, logx.Nop())
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	err = relay.Send(context.Background(), "s", "t", validParams())
	if !outcome.Is(err, outcome.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestNewHTTPRequiresEndpoint(t *testing.T) {
	if _, err := NewHTTP(HTTPConfig{}, logx.Nop()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLogRelay(t *testing.T) {
	r := NewLog(logx.Nop())
	if err := r.Send(context.Background(), "s", "t", validParams()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Send(ctx, "s", "t", validParams()); !outcome.Is(err, outcome.KindTransport) {
		t.Fatalf("expected transport error on canceled ctx, got %v", err)
	}
}
