package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lead-miners/scout/internal/config"
	"github.com/lead-miners/scout/internal/geo"
	"github.com/lead-miners/scout/internal/progress"
	"github.com/lead-miners/scout/internal/scraper"
	"github.com/lead-miners/scout/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// scrapeResult is the final frame of a streamed scrape response
type scrapeResult struct {
	Kind    string              `json:"kind"`
	RunID   string              `json:"run_id"`
	Stored  int                 `json:"stored,omitempty"`
	Summary *scraper.RunSummary `json:"summary"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"uptime": s.app.Uptime().String(),
	})
}

// handleScrape expands the fan-out request and streams the run as NDJSON:
// one progress event per line, with the aggregate result as the final line.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	targets, err := geo.Expand(r.Context(), s.app.Geo, req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, geo.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		http.Error(w, "expanding targets: "+err.Error(), status)
		return
	}
	if len(targets) == 0 {
		http.Error(w, "request expands to no search targets", http.StatusBadRequest)
		return
	}

	runID := uuid.NewString()
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Run-Id", runID)
	w.WriteHeader(http.StatusOK)

	sink := progress.NewStreamSink(w)
	result := s.runScrape(r.Context(), runID, req, targets, sink)

	enc := json.NewEncoder(w)
	if err := enc.Encode(result); err != nil {
		s.app.Logger.Warn().Err(err).Str("run_id", runID).Msg("Writing final result frame")
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// handleScrapeWS is the websocket variant: the request is the first text
// frame, progress events and the final result are JSON frames back.
func (s *Server) handleScrapeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.app.Logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req models.ScrapeRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(map[string]string{"error": "invalid request frame: " + err.Error()})
		return
	}

	targets, err := geo.Expand(r.Context(), s.app.Geo, req)
	if err != nil {
		conn.WriteJSON(map[string]string{"error": "expanding targets: " + err.Error()})
		return
	}
	if len(targets) == 0 {
		conn.WriteJSON(map[string]string{"error": "request expands to no search targets"})
		return
	}

	// Cancel the run if the client goes away
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	runID := uuid.NewString()
	sink := progress.NewWSSink(conn)
	result := s.runScrape(ctx, runID, req, targets, sink)

	if err := sink.WriteJSON(result); err != nil {
		s.app.Logger.Warn().Err(err).Str("run_id", runID).Msg("Writing final result frame")
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run complete"))
}

// runScrape drives the pipeline for one request, applying per-request pool
// overrides and persisting results when asked.
func (s *Server) runScrape(ctx context.Context, runID string, req models.ScrapeRequest, targets []models.SearchTarget, sink progress.Sink) *scrapeResult {
	poolCfg := s.app.PoolConfig()
	if req.SessionCount > 0 {
		poolCfg.SessionCount = min(req.SessionCount, config.DefaultMaxSessionCount)
	}
	if req.SessionCapacity > 0 {
		poolCfg.SessionCapacity = req.SessionCapacity
	}

	s.app.Logger.Info().
		Str("run_id", runID).
		Str("query", req.Query).
		Int("targets", len(targets)).
		Int("sessions", poolCfg.SessionCount).
		Int("per_session", poolCfg.SessionCapacity).
		Msg("Scrape run started")

	pl := &scraper.Pipeline{
		Launcher:   s.app.Launcher,
		Pool:       poolCfg,
		Limiter:    s.app.Limiter,
		Seen:       s.app.Seen,
		MaxScrolls: s.app.Config.MaxScrolls,
		Details:    req.Details,
	}
	summary := pl.Run(ctx, targets, sink)

	result := &scrapeResult{Kind: "result", RunID: runID, Summary: summary}

	if req.Store && len(summary.Listings) > 0 {
		st, err := s.app.EnsureStore(ctx)
		if err == nil {
			err = st.UpsertListings(ctx, runID, summary.Listings)
		}
		if err != nil {
			s.app.Logger.Error().Err(err).Str("run_id", runID).Msg("Persisting listings")
			progress.Emit(sink, progress.NewEvent(progress.KindError, "persisting listings failed", map[string]any{
				"error": err.Error(),
			}))
		} else {
			result.Stored = len(summary.Listings)
		}
	}

	s.app.Logger.Info().
		Str("run_id", runID).
		Int("listings", len(summary.Listings)).
		Int("search_ok", summary.Search.SuccessCount).
		Int("search_err", summary.Search.ErrorCount).
		Msg("Scrape run finished")

	return result
}
