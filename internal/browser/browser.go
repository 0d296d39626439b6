// Package browser abstracts headless-browser processes and pages so the
// scraping pool can be exercised against mocks. The chromedp implementation
// lives in launcher.go.
package browser

import "context"

// Page is one browser tab. It is exclusively owned by a single work item's
// execution and never shared between goroutines.
type Page interface {
	// Context returns the chromedp-compatible context work functions run
	// against. The page operation timeout is already applied.
	Context() context.Context

	// Close releases the tab. Safe to call more than once.
	Close() error
}

// Browser is one browser process. Pages are created per work item and must
// all be closed before the browser itself.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Launcher starts browser processes. One Launch call corresponds to one
// Browser Session in the pool.
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}
