package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel  = "info"
	DefaultJSONLog   = false
	DefaultUserAgent = "Scout/1.0 (https://github.com/lead-miners/scout)"

	// Pool sizing: SessionCount browsers per super-batch, SessionCapacity
	// pages per browser. Peak pages = SessionCount * SessionCapacity.
	DefaultSessionCount    = 10
	DefaultSessionCapacity = 5
	DefaultMaxSessionCount = 20

	DefaultPageTimeout = 60 * time.Second

	// Throttle between super-batches, long enough to let Chrome processes
	// from the previous batch fully exit.
	DefaultInterBatchDelay = 2 * time.Second

	DefaultMaxScrolls      = 12
	DefaultBrowserHeadless = true

	DefaultRateLimitRPS   = 2.0
	DefaultRateLimitBurst = 4

	DefaultDedupeTTL = 30 * time.Minute

	DefaultListenAddr = ":8080"
	DefaultRedisAddr  = "localhost:6379"

	DefaultGeoAPIBaseURL = "https://api.countrystatecity.in/v1"
)
