// Package pool is the concurrent browser-orchestration layer. It takes a
// list of work items (URLs) and a work function, and executes the function
// across a bounded pool of browser processes and pages: one page per item,
// SessionCapacity pages per browser, SessionCount browsers per super-batch,
// super-batches strictly sequential.
//
// Failures are converted to data as close to their origin as possible; Run
// always returns a Report and never an error.
package pool

import (
	"context"
	"time"

	"github.com/lead-miners/scout/internal/browser"
)

// WorkFunc is the caller-supplied unit of work: scrape one item against one
// live page. The pool invokes it, never stores it. The passed context
// carries the page operation timeout.
type WorkFunc[T any] func(ctx context.Context, item string, pg browser.Page) (T, error)

// PageResult is the outcome of one item's execution. Exactly one of Data
// and Err is meaningful, selected by OK.
type PageResult[T any] struct {
	Item string
	OK   bool
	Data T
	Err  string
}

// SessionResult aggregates one browser session's page results. Err is set
// only when the browser process itself failed (launch failure or a critical
// post-launch failure); Results is empty in that case and the session's
// items are accounted for by the orchestrator, one error per item.
type SessionResult[T any] struct {
	SessionIndex int
	Items        []string
	Results      []PageResult[T]
	Err          string
}

// Report is the aggregate outcome of one Run call. Success means at least
// one item succeeded, not that all did; callers must inspect the counts.
// SuccessCount + ErrorCount == TotalItems always holds.
type Report[T any] struct {
	Success      bool          `json:"success"`
	Results      []T           `json:"results"`
	Errors       []string      `json:"errors,omitempty"`
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
	TotalItems   int           `json:"total_items"`
	BatchCount   int           `json:"batch_count"`
	Duration     time.Duration `json:"duration_ns"`
}

// Config bounds the pool's concurrency
type Config struct {
	SessionCount    int           // concurrent browser processes per super-batch
	SessionCapacity int           // pages per browser process
	InterBatchDelay time.Duration // throttle between super-batches
}

func (c Config) withDefaults() Config {
	if c.SessionCount <= 0 {
		c.SessionCount = 10
	}
	if c.SessionCapacity <= 0 {
		c.SessionCapacity = 5
	}
	return c
}

// PoolCapacity is the super-batch size: the number of pages that may be
// open at the same instant.
func (c Config) PoolCapacity() int {
	return c.SessionCount * c.SessionCapacity
}
