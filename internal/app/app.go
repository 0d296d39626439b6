// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/browser"
	"github.com/lead-miners/scout/internal/config"
	"github.com/lead-miners/scout/internal/dedupe"
	"github.com/lead-miners/scout/internal/geo"
	"github.com/lead-miners/scout/internal/keys"
	"github.com/lead-miners/scout/internal/pool"
	"github.com/lead-miners/scout/internal/proxy"
	"github.com/lead-miners/scout/internal/ratelimit"
	"github.com/lead-miners/scout/internal/store"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across CLI commands and the HTTP
// server. Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config   *config.Config
	Logger   *zerolog.Logger
	Limiter  ratelimit.RateLimiter
	Seen     *dedupe.Set
	Proxies  *proxy.Pool
	Launcher browser.Launcher
	Geo      *geo.Client

	storeMu sync.Mutex
	Store   store.Store

	startTime time.Time
}

// New creates and initializes an Application from config: logger, rate
// limiter, dedupe set, proxy rotation, browser launcher, and geo client.
// The Redis store is created lazily via EnsureStore so runs that do not
// persist never touch Redis.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := newLogger(cfg)

	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	seen := dedupe.NewSet(cfg.DedupeTTL)

	proxies := proxy.NewPool(cfg.Proxies)

	launcherOpts := browser.Options{
		Headless:       cfg.Headless,
		UserAgent:      cfg.UserAgent,
		ChromePath:     cfg.ChromePath,
		PageTimeout:    cfg.PageTimeout,
		BlockResources: true,
	}
	if len(cfg.Proxies) > 0 {
		launcherOpts.NextProxy = proxies.Next
		launcherOpts.ProxyFailed = proxies.MarkFailed
	}
	launcher := browser.NewChromeLauncher(launcherOpts)
	logger.Debug().
		Bool("headless", cfg.Headless).
		Dur("page_timeout", cfg.PageTimeout).
		Int("proxies", len(cfg.Proxies)).
		Msg("Browser launcher initialized")

	geoClient := geo.NewClient(cfg.GeoAPIBaseURL, keys.GeoAPIKey(cfg.GeoAPIKey))

	app := &Application{
		Config:    cfg,
		Logger:    &logger,
		Limiter:   limiter,
		Seen:      seen,
		Proxies:   proxies,
		Launcher:  launcher,
		Geo:       geoClient,
		startTime: time.Now(),
	}

	logger.Debug().Msg("Application initialized")
	return app, nil
}

// PoolConfig derives the orchestration bounds from the app config
func (a *Application) PoolConfig() pool.Config {
	return pool.Config{
		SessionCount:    a.Config.SessionCount,
		SessionCapacity: a.Config.SessionCapacity,
		InterBatchDelay: a.Config.InterBatchDelay,
	}
}

// EnsureStore lazily connects the Redis store on first use
func (a *Application) EnsureStore(ctx context.Context) (store.Store, error) {
	a.storeMu.Lock()
	defer a.storeMu.Unlock()

	if a.Store != nil {
		return a.Store, nil
	}

	s, err := store.NewRedisStore(ctx, a.Config.RedisAddr)
	if err != nil {
		return nil, err
	}
	a.Store = s
	a.Logger.Info().Str("addr", a.Config.RedisAddr).Msg("Listing store connected")
	return s, nil
}

// Close shuts down the application's resources. Errors during shutdown are
// logged but do not prevent the remaining steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	if a.Seen != nil {
		a.Seen.Close()
	}

	a.storeMu.Lock()
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing listing store")
		}
		a.Store = nil
	}
	a.storeMu.Unlock()

	a.Logger.Info().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer
	if cfg.JSONLog {
		w = os.Stderr
	} else {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
