package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lead-miners/scout/internal/app"
	"github.com/lead-miners/scout/internal/browser"
	"github.com/lead-miners/scout/internal/config"
	"github.com/lead-miners/scout/internal/dedupe"
	"github.com/lead-miners/scout/internal/geo"
	"github.com/lead-miners/scout/internal/ratelimit"
)

type fakeLauncher struct{}

func (fakeLauncher) Launch(ctx context.Context) (browser.Browser, error) {
	return fakeBrowser{}, nil
}

type fakeBrowser struct{}

func (fakeBrowser) NewPage(ctx context.Context) (browser.Page, error) {
	return fakePage{ctx: ctx}, nil
}

func (fakeBrowser) Close() error { return nil }

type fakePage struct{ ctx context.Context }

func (p fakePage) Context() context.Context { return p.ctx }
func (fakePage) Close() error               { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		SessionCount:    2,
		SessionCapacity: 2,
		PageTimeout:     5 * time.Second,
		MaxScrolls:      1,
		RateLimitRPS:    100,
		RateLimitBurst:  100,
		DedupeTTL:       time.Minute,
		ListenAddr:      ":0",
	}
	logger := zerolog.Nop()
	seen := dedupe.NewSet(cfg.DedupeTTL)
	t.Cleanup(seen.Close)

	a := &app.Application{
		Config:   cfg,
		Logger:   &logger,
		Limiter:  ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Seen:     seen,
		Launcher: fakeLauncher{},
		Geo:      geo.NewClient("http://unreachable.invalid", ""),
	}
	return New(a)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.http.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestScrapeRejectsBadBody(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.http.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/scrape", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestScrapeRejectsEmptyFanOut(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.http.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/scrape", "application/json", strings.NewReader(`{"query":""}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

// The fake pages cannot drive a real browser, so every item errors; the
// stream must still carry events and end with a complete result frame.
func TestScrapeStreamsNDJSON(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.http.Handler)
	defer ts.Close()

	body := `{"urls":["https://www.google.com/maps/search/plumbers"]}`
	resp, err := http.Post(ts.URL+"/api/scrape", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("expected ndjson content type, got %q", ct)
	}
	if resp.Header.Get("X-Run-Id") == "" {
		t.Error("expected X-Run-Id header")
	}

	var lines []map[string]any
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var frame map[string]any
		if err := json.Unmarshal([]byte(line), &frame); err != nil {
			t.Fatalf("line is not JSON: %q: %v", line, err)
		}
		lines = append(lines, frame)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("reading stream: %v", err)
	}

	if len(lines) < 2 {
		t.Fatalf("expected progress events plus a result frame, got %d lines", len(lines))
	}

	last := lines[len(lines)-1]
	if last["kind"] != "result" {
		t.Fatalf("expected final frame kind result, got %v", last["kind"])
	}
	summary, ok := last["summary"].(map[string]any)
	if !ok {
		t.Fatal("result frame missing summary")
	}
	search, ok := summary["search"].(map[string]any)
	if !ok {
		t.Fatal("summary missing search report")
	}
	if search["total_items"].(float64) != 1 {
		t.Errorf("expected 1 total item, got %v", search["total_items"])
	}
	// success + error must account for every item even when all fail
	sum := search["success_count"].(float64) + search["error_count"].(float64)
	if sum != 1 {
		t.Errorf("counts do not add up: %v", search)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := rateLimit(1, 1, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request should be limited, got %d", second.Code)
	}

	// A different client has its own bucket
	other := httptest.NewRecorder()
	otherReq := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	otherReq.RemoteAddr = "10.0.0.2:4000"
	handler.ServeHTTP(other, otherReq)
	if other.Code != http.StatusOK {
		t.Errorf("other client should pass, got %d", other.Code)
	}
}
