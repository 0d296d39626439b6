package config

import "fmt"

func validate(c *Config) error {
	if c.SessionCount <= 0 || c.SessionCount > DefaultMaxSessionCount {
		return fmt.Errorf("session count must be between 1 and %d", DefaultMaxSessionCount)
	}
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("session capacity must be > 0")
	}
	if c.PageTimeout <= 0 {
		return fmt.Errorf("page timeout must be > 0")
	}
	if c.InterBatchDelay < 0 {
		return fmt.Errorf("inter-batch delay must be >= 0")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit rps must be > 0")
	}
	return nil
}
