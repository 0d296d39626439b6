package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/browser"
	"github.com/lead-miners/scout/internal/dedupe"
	"github.com/lead-miners/scout/internal/pool"
	"github.com/lead-miners/scout/internal/ratelimit"
	"github.com/lead-miners/scout/pkg/models"
)

// Config carries the collaborators shared by all work-function instances
type Config struct {
	Limiter    ratelimit.RateLimiter
	Seen       *dedupe.Set
	MaxScrolls int

	// Targets maps search URL back to its fan-out target so results can be
	// annotated with query/city/state.
	Targets map[string]models.SearchTarget
}

// SearchWork builds the work function scraping one city search page into
// its listings. The returned function matches pool.WorkFunc and is safe to
// run from many pages at once.
func SearchWork(cfg Config) pool.WorkFunc[[]models.Listing] {
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = 12
	}

	return func(ctx context.Context, url string, _ browser.Page) ([]models.Listing, error) {
		if cfg.Limiter != nil {
			if err := cfg.Limiter.Wait(ctx, url); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		if err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body"),
		); err != nil {
			return nil, fmt.Errorf("navigation failed: %w", err)
		}

		if err := scrollFeed(ctx, cfg.MaxScrolls); err != nil {
			return nil, err
		}

		var html string
		if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
			return nil, fmt.Errorf("capturing rendered page: %w", err)
		}

		listings, err := ParseSearchResults(html)
		if err != nil {
			return nil, err
		}

		target := cfg.Targets[url]
		out := listings[:0]
		for _, l := range listings {
			if cfg.Seen != nil && l.PlaceURL != "" && cfg.Seen.Seen(l.PlaceURL) {
				continue
			}
			l.Query = target.Query
			l.City = target.City
			l.State = target.State
			l.Country = target.Country
			out = append(out, l)
		}

		log.Debug().
			Str("url", url).
			Str("city", target.City).
			Int("listings", len(out)).
			Msg("Search page scraped")

		return out, nil
	}
}

// scrollFeed keeps scrolling the lazy-loaded result feed until the card
// count stops growing, the end-of-list marker appears, or maxScrolls is hit.
func scrollFeed(ctx context.Context, maxScrolls int) error {
	lastCount := -1
	for i := 0; i < maxScrolls; i++ {
		var atEnd bool
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(scrollFeedJS, nil),
			chromedp.Sleep(700*time.Millisecond),
			chromedp.Evaluate(endOfListJS, &atEnd),
		); err != nil {
			return fmt.Errorf("scrolling results feed: %w", err)
		}
		if atEnd {
			return nil
		}

		var count int
		if err := chromedp.Run(ctx, chromedp.Evaluate(resultCountJS, &count)); err != nil {
			return fmt.Errorf("counting results: %w", err)
		}
		if count == lastCount {
			return nil
		}
		lastCount = count
	}
	return nil
}
