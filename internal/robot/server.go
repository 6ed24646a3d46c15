package robot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/snowbotix/snowlog"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a controller over HTTP.
type Server struct {
	controller *Controller
	logger     *snowlog.Logger
	httpServer *http.Server
}

// NewServer wires the controller's endpoints onto addr.
func NewServer(controller *Controller, logger *snowlog.Logger, addr string) *Server {
	s := &Server{controller: controller, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /robot/state", s.handleState)
	mux.HandleFunc("POST /robot/command", s.handleCommand)
	mux.HandleFunc("GET /robot/history", s.handleHistory)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route table, for serving through other listeners.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	s.logger.Info().Msgf("HTTP server started on http://%s", s.httpServer.Addr)

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.httpServer.Serve(listener) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		s.rejectCommand(w, fmt.Errorf("invalid command body: %w", err))
		return
	}
	if _, err := s.controller.Process(cmd); err != nil {
		s.rejectCommand(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.History())
}

func (s *Server) rejectCommand(w http.ResponseWriter, err error) {
	s.logger.Error().Msgf("Failed to process command: %v", err)
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
