// Package server exposes the scraping pipeline over HTTP: a streaming
// NDJSON endpoint, a websocket variant, and a health check.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lead-miners/scout/internal/app"
)

// Server wraps the HTTP listener and its handlers
type Server struct {
	app  *app.Application
	http *http.Server
}

// New builds a Server routing on the application's configured address
func New(a *app.Application) *Server {
	s := &Server{app: a}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", allowMethod(http.MethodGet, s.handleHealth))
	mux.HandleFunc("/api/scrape", allowMethod(http.MethodPost, s.handleScrape))
	mux.HandleFunc("/api/scrape/ws", allowMethod(http.MethodGet, s.handleScrapeWS))

	handler := requestLogger(a.Logger, rateLimit(a.Config.RateLimitRPS, a.Config.RateLimitBurst, mux))

	s.http = &http.Server{
		Addr:              a.Config.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// No write timeout: scrape responses stream for the length of a run
	}
	return s
}

// allowMethod reproduces the method-scoped mux patterns ("GET /path") of Go
// 1.22+, which the Go 1.21 ServeMux this module builds with does not support:
// wrong methods get 405 with an Allow header, and HEAD matches a GET route.
func allowMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Start serves until ctx is cancelled, then drains with a grace period
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.app.Logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.app.Logger.Info().Msg("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
