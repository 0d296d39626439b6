// Package geo expands a (country, states, cities) fan-out request into one
// map search target per city, using an external countries/states/cities
// REST API.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const pageSize = 100

// Place is one named region returned by the geo API
type Place struct {
	Name string `json:"name"`
	ISO2 string `json:"iso2,omitempty"`
}

// Client is a thin, retry-free client for the geo REST API. Pagination is a
// plain loop: fetch pages until one comes back short.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client for the given API base URL and key
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// States lists the states of a country (ISO2 code)
func (c *Client) States(ctx context.Context, country string) ([]Place, error) {
	return c.paginate(ctx, fmt.Sprintf("/countries/%s/states", url.PathEscape(country)))
}

// Cities lists the cities of one state within a country (both ISO2 codes)
func (c *Client) Cities(ctx context.Context, country, state string) ([]Place, error) {
	return c.paginate(ctx, fmt.Sprintf("/countries/%s/states/%s/cities",
		url.PathEscape(country), url.PathEscape(state)))
}

func (c *Client) paginate(ctx context.Context, path string) ([]Place, error) {
	var all []Place
	for page := 1; ; page++ {
		batch, err := c.fetchPage(ctx, path, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			break
		}
	}
	log.Debug().Str("path", path).Int("count", len(all)).Msg("Geo lookup complete")
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, path string, page int) ([]Place, error) {
	u := fmt.Sprintf("%s%s?page=%d&limit=%d", c.baseURL, path, page, pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-CSCAPI-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geo api returned %d: %s", resp.StatusCode, body)
	}

	var places []Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("geo api response decode failed: %w", err)
	}
	return places, nil
}
