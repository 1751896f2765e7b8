package httpbridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/novinsdk/sentinel-go/pkg/sentinel"
)

// Server is the HTTP bridge external collaborator from spec 6: GET
// /health, POST /assess, plus an optional websocket push of completed
// assessments.
type Server struct {
	sdk *sentinel.SDK
	hub *Hub
	srv *http.Server
}

// NewServer builds a Server bound to host:port, wiring both REST routes
// and the websocket upgrade endpoint.
func NewServer(sdk *sentinel.SDK, host string, port int) *Server {
	s := &Server{sdk: sdk}
	s.hub = NewHub(func() any { return sdk.GetHealth() })

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /assess", s.handleAssess)
	mux.HandleFunc("GET /ws", s.hub.HandleWebSocket)
	mux.HandleFunc("/", s.handleNotFound)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start runs the hub's broadcast loop and the HTTP server until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run()

	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("httpbridge: listening")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("httpbridge: server stopped unexpectedly")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("httpbridge: shutdown error")
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(body) == 0 {
		jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "empty body"})
		return
	}

	assessment, err := s.sdk.Assess(r.Context(), string(body))
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.hub.BroadcastAssessment(assessment)
	jsonResponse(w, http.StatusOK, assessment)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusNotFound, map[string]string{"error": "not found"})
}
