package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/browser"
	"github.com/lead-miners/scout/internal/pool"
	"github.com/lead-miners/scout/pkg/models"
)

// DetailWork builds the work function scraping one place detail page
func DetailWork(cfg Config) pool.WorkFunc[models.Listing] {
	return func(ctx context.Context, url string, _ browser.Page) (models.Listing, error) {
		if cfg.Limiter != nil {
			if err := cfg.Limiter.Wait(ctx, url); err != nil {
				return models.Listing{}, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		var html string
		if err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.WaitVisible(selDetailName, chromedp.ByQuery),
			chromedp.Sleep(300*time.Millisecond),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		); err != nil {
			return models.Listing{}, fmt.Errorf("detail navigation failed: %w", err)
		}

		l, err := ParseDetail(html)
		if err != nil {
			return models.Listing{}, err
		}
		l.PlaceURL = url

		log.Debug().Str("url", url).Str("name", l.Name).Msg("Detail page scraped")
		return l, nil
	}
}
