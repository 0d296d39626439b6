package scraper

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/browser"
	"github.com/lead-miners/scout/internal/dedupe"
	"github.com/lead-miners/scout/internal/geo"
	"github.com/lead-miners/scout/internal/pool"
	"github.com/lead-miners/scout/internal/progress"
	"github.com/lead-miners/scout/internal/ratelimit"
	"github.com/lead-miners/scout/pkg/models"
)

// Pipeline runs the full scrape: a search pass over the fan-out targets and,
// when Details is set, a second pass over each found place's detail page.
// Both the CLI and the HTTP API drive runs through it.
type Pipeline struct {
	Launcher   browser.Launcher
	Pool       pool.Config
	Limiter    ratelimit.RateLimiter
	Seen       *dedupe.Set
	MaxScrolls int
	Details    bool
}

// RunSummary aggregates both passes of one pipeline run
type RunSummary struct {
	Listings []models.Listing             `json:"listings"`
	Search   *pool.Report[[]models.Listing] `json:"search"`
	Detail   *pool.Report[models.Listing]   `json:"detail,omitempty"`
}

// Run executes the pipeline over the expanded targets, streaming progress to
// sink. Like the pool underneath it, it never fails outright: per-item
// errors are carried in the reports and the surviving listings are returned.
func (p *Pipeline) Run(ctx context.Context, targets []models.SearchTarget, sink progress.Sink) *RunSummary {
	cfg := Config{
		Limiter:    p.Limiter,
		Seen:       p.Seen,
		MaxScrolls: p.MaxScrolls,
		Targets:    geo.URLIndex(targets),
	}

	runner := pool.New[[]models.Listing](p.Launcher, p.Pool, pool.WithSink[[]models.Listing](sink))
	searchReport := runner.Run(ctx, geo.URLs(targets), SearchWork(cfg))

	listings := make([]models.Listing, 0, len(searchReport.Results)*8)
	for _, page := range searchReport.Results {
		listings = append(listings, page...)
	}

	summary := &RunSummary{Listings: listings, Search: searchReport}

	if !p.Details || len(listings) == 0 || ctx.Err() != nil {
		return summary
	}

	urls := make([]string, 0, len(listings))
	for _, l := range listings {
		if l.PlaceURL != "" {
			urls = append(urls, l.PlaceURL)
		}
	}
	if len(urls) == 0 {
		return summary
	}

	progress.Emit(sink, progress.NewEvent(progress.KindStatus, "detail pass started", map[string]any{
		"places": len(urls),
	}))

	detailRunner := pool.New[models.Listing](p.Launcher, p.Pool, pool.WithSink[models.Listing](sink))
	detailReport := detailRunner.Run(ctx, urls, DetailWork(cfg))

	summary.Detail = detailReport
	summary.Listings = mergeDetails(listings, detailReport.Results)

	log.Debug().
		Int("listings", len(summary.Listings)).
		Int("detail_ok", detailReport.SuccessCount).
		Int("detail_err", detailReport.ErrorCount).
		Msg("Detail pass merged")

	return summary
}

// mergeDetails folds detail-page fields into the search listings, matching
// on PlaceURL. Detail fields win only when non-empty so a partial detail
// scrape never erases data the search pass already found.
func mergeDetails(listings []models.Listing, details []models.Listing) []models.Listing {
	byURL := make(map[string]models.Listing, len(details))
	for _, d := range details {
		if d.PlaceURL != "" {
			byURL[d.PlaceURL] = d
		}
	}

	out := make([]models.Listing, len(listings))
	for i, l := range listings {
		d, ok := byURL[l.PlaceURL]
		if !ok {
			out[i] = l
			continue
		}
		if d.Name != "" {
			l.Name = d.Name
		}
		if d.Category != "" {
			l.Category = d.Category
		}
		if d.Address != "" {
			l.Address = d.Address
		}
		if d.Phone != "" {
			l.Phone = d.Phone
		}
		if d.Website != "" {
			l.Website = d.Website
		}
		if d.Description != "" {
			l.Description = d.Description
		}
		if d.Rating > 0 {
			l.Rating = d.Rating
		}
		if d.ReviewCount > 0 {
			l.ReviewCount = d.ReviewCount
		}
		out[i] = l
	}
	return out
}
