// Package http exposes the Telegram webhook over a plain HTTP server.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gastobot/internal/bot"
	"gastobot/internal/middleware/trace"
	"gastobot/internal/telegram"
)

// ackBody is the fixed acknowledgement returned on every webhook call.
// Telegram retries non-200 responses, so handled failures still return 200.
const ackBody = "Message processed successfully"

type Server struct {
	http.Server
	handler *bot.Handler
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, handler *bot.Handler) *Server {
	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: trace.Middleware(mux),
		},
		handler: handler,
	}

	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	return s
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		slog.ErrorContext(ctx, "Failed to decode webhook payload", "error", err)
		writeAck(w)
		return
	}

	if err := s.handler.Handle(ctx, update); err != nil {
		slog.ErrorContext(ctx, "Webhook invocation aborted", "error", err)
	}
	writeAck(w)
}

func writeAck(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ackBody); err != nil {
		slog.Error("Failed to write acknowledgement", "error", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
