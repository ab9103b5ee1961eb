package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gastobot/internal/bot"
	sheetsmem "gastobot/internal/sheets/memory"
	storemem "gastobot/internal/store/memory"
	"gastobot/internal/telegram"
)

type nopNotifier struct{}

func (nopNotifier) SendReply(context.Context, int64, string, *telegram.ReplyOptions) error {
	return nil
}

func (nopNotifier) DeleteMessage(context.Context, int64, int64) error { return nil }

func newTestServer() *Server {
	st := storemem.New()
	h := bot.NewHandler(st, st, sheetsmem.New(), nopNotifier{}, "bot@example.iam.gserviceaccount.com")
	return NewServer(":0", h)
}

func TestWebhookAcknowledgesValidUpdate(t *testing.T) {
	srv := newTestServer()

	body := `{"update_id":1,"message":{"message_id":1,"from":{"id":9,"username":"seba"},"chat":{"id":42,"username":"seba"},"date":1700000000,"text":"/start"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `"Message processed successfully"` {
		t.Fatalf("body = %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestWebhookAcknowledgesGarbage(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even for malformed payloads", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `"Message processed successfully"` {
		t.Fatalf("body = %q", got)
	}
}

func TestWebhookAcknowledgesEmptyUpdate(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1}`))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer()

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
