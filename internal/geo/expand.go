package geo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/pkg/models"
)

const searchBaseURL = "https://www.google.com/maps/search/"

// ErrInvalidRequest marks fan-out requests that can never expand, as
// opposed to geo API failures.
var ErrInvalidRequest = errors.New("invalid fan-out request")

// Expand resolves a fan-out request into one search target per city.
//
// Resolution rules:
//   - explicit URLs win: each becomes a target with no geo lookup
//   - explicit cities skip the API entirely
//   - otherwise states (all of the country's when none are named) are
//     resolved to their cities via the geo API
func Expand(ctx context.Context, c *Client, req models.ScrapeRequest) ([]models.SearchTarget, error) {
	if len(req.URLs) > 0 {
		targets := make([]models.SearchTarget, 0, len(req.URLs))
		for _, u := range req.URLs {
			targets = append(targets, models.SearchTarget{Query: req.Query, URL: u})
		}
		return targets, nil
	}

	if req.Query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}

	if len(req.Cities) > 0 {
		targets := make([]models.SearchTarget, 0, len(req.Cities))
		for _, city := range req.Cities {
			t := models.SearchTarget{
				Query:   req.Query,
				City:    city,
				Country: req.Country,
			}
			t.URL = SearchURL(t)
			targets = append(targets, t)
		}
		return targets, nil
	}

	if req.Country == "" {
		return nil, fmt.Errorf("%w: either cities, urls, or a country is required", ErrInvalidRequest)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: geo api client is required to expand a country", ErrInvalidRequest)
	}

	states := req.States
	if len(states) == 0 {
		found, err := c.States(ctx, req.Country)
		if err != nil {
			return nil, fmt.Errorf("resolving states of %s: %w", req.Country, err)
		}
		for _, s := range found {
			states = append(states, s.ISO2)
		}
	}

	var targets []models.SearchTarget
	for _, state := range states {
		cities, err := c.Cities(ctx, req.Country, state)
		if err != nil {
			return nil, fmt.Errorf("resolving cities of %s/%s: %w", req.Country, state, err)
		}
		for _, city := range cities {
			t := models.SearchTarget{
				Query:   req.Query,
				City:    city.Name,
				State:   state,
				Country: req.Country,
			}
			t.URL = SearchURL(t)
			targets = append(targets, t)
		}
	}

	log.Info().
		Str("query", req.Query).
		Str("country", req.Country).
		Int("states", len(states)).
		Int("targets", len(targets)).
		Msg("Fan-out expanded")

	return targets, nil
}

// SearchURL builds the map search URL for one target:
// "<query> in <city> <state> <country>", path-escaped, English locale.
func SearchURL(t models.SearchTarget) string {
	terms := []string{t.Query, "in", t.City}
	if t.State != "" {
		terms = append(terms, t.State)
	}
	if t.Country != "" {
		terms = append(terms, t.Country)
	}
	return searchBaseURL + url.PathEscape(strings.Join(terms, " ")) + "?hl=en"
}

// URLIndex maps each target's URL back to its target so scrape results can
// be re-annotated with the city they came from.
func URLIndex(targets []models.SearchTarget) map[string]models.SearchTarget {
	idx := make(map[string]models.SearchTarget, len(targets))
	for _, t := range targets {
		idx[t.URL] = t
	}
	return idx
}

// URLs extracts the work-item list the pool consumes
func URLs(targets []models.SearchTarget) []string {
	urls := make([]string, 0, len(targets))
	for _, t := range targets {
		urls = append(urls, t.URL)
	}
	return urls
}
