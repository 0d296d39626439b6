package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Pool
	SessionCount    int
	SessionCapacity int
	PageTimeout     time.Duration
	InterBatchDelay time.Duration

	// Browser
	Headless   bool
	ChromePath string
	UserAgent  string
	Proxies    []string

	// Scraping
	MaxScrolls     int
	RateLimitRPS   float64
	RateLimitBurst int
	DedupeTTL      time.Duration

	// Geo API
	GeoAPIBaseURL string
	GeoAPIKey     string

	// Persistence
	RedisAddr string

	// HTTP API
	ListenAddr string
}

// Load builds a Config by combining defaults, an optional .env file,
// SCOUT_* environment variables, and CLI flags (highest priority).
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// Best-effort .env load; absence is not an error
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	cfg := &Config{
		LogLevel:        DefaultLogLevel,
		JSONLog:         DefaultJSONLog,
		SessionCount:    DefaultSessionCount,
		SessionCapacity: DefaultSessionCapacity,
		PageTimeout:     DefaultPageTimeout,
		InterBatchDelay: DefaultInterBatchDelay,
		Headless:        DefaultBrowserHeadless,
		UserAgent:       DefaultUserAgent,
		MaxScrolls:      DefaultMaxScrolls,
		RateLimitRPS:    DefaultRateLimitRPS,
		RateLimitBurst:  DefaultRateLimitBurst,
		DedupeTTL:       DefaultDedupeTTL,
		GeoAPIBaseURL:   DefaultGeoAPIBaseURL,
		RedisAddr:       DefaultRedisAddr,
		ListenAddr:      DefaultListenAddr,
	}

	applyEnv(cfg)

	if cmd != nil {
		applyFlags(cfg, cmd)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SCOUT_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("SCOUT_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("SCOUT_PROXIES"); v != "" {
		cfg.Proxies = splitList(v)
	}
	if v := os.Getenv("SCOUT_GEO_API_KEY"); v != "" {
		cfg.GeoAPIKey = v
	}
	if v := os.Getenv("SCOUT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("SCOUT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SCOUT_SESSION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SessionCount = n
		}
	}
	if v := os.Getenv("SCOUT_SESSION_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SessionCapacity = n
		}
	}
	if v := os.Getenv("SCOUT_PAGE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PageTimeout = d
		}
	}
	if v := os.Getenv("SCOUT_BATCH_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.InterBatchDelay = d
		}
	}
}

func applyFlags(cfg *Config, cmd *cobra.Command) {
	// Flags are registered as persistent; when a subcommand runs, the merged
	// set lives on that command, not the root, so check both.
	flags := flagLookup(cmd)

	if f := flags.Lookup("user-agent"); f != nil && f.Changed {
		cfg.UserAgent = f.Value.String()
	}
	if f := flags.Lookup("chrome-path"); f != nil && f.Changed {
		cfg.ChromePath = f.Value.String()
	}
	if f := flags.Lookup("proxies"); f != nil && f.Changed {
		cfg.Proxies = splitList(f.Value.String())
	}
	if f := flags.Lookup("sessions"); f != nil && f.Changed {
		if n, err := strconv.Atoi(f.Value.String()); err == nil {
			cfg.SessionCount = n
		}
	}
	if f := flags.Lookup("per-session"); f != nil && f.Changed {
		if n, err := strconv.Atoi(f.Value.String()); err == nil {
			cfg.SessionCapacity = n
		}
	}
	if f := flags.Lookup("page-timeout"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			cfg.PageTimeout = d
		}
	}
	if f := flags.Lookup("batch-delay"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			cfg.InterBatchDelay = d
		}
	}
	if f := flags.Lookup("headed"); f != nil && f.Value.String() == "true" {
		cfg.Headless = false
	}
	if f := flags.Lookup("json"); f != nil && f.Value.String() == "true" {
		cfg.JSONLog = true
	}
	if f := flags.Lookup("verbose"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "debug"
	}
	if f := flags.Lookup("quiet"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "error"
	}
	if f := flags.Lookup("geo-api-key"); f != nil && f.Changed {
		cfg.GeoAPIKey = f.Value.String()
	}
	if f := flags.Lookup("redis"); f != nil && f.Changed {
		cfg.RedisAddr = f.Value.String()
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		cfg.ListenAddr = f.Value.String()
	}
}

type flagSet struct{ sets []*pflag.FlagSet }

func flagLookup(cmd *cobra.Command) flagSet {
	return flagSet{sets: []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()}}
}

func (fs flagSet) Lookup(name string) *pflag.Flag {
	for _, s := range fs.sets {
		if f := s.Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
