package models

import "time"

// Listing represents one business extracted from a map search or detail page
type Listing struct {
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Website     string    `json:"website,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	ReviewCount int       `json:"review_count,omitempty"`
	PlaceURL    string    `json:"place_url,omitempty"`
	Description string    `json:"description,omitempty"`
	Query       string    `json:"query,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Country     string    `json:"country,omitempty"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// SearchTarget is one unit of geographic fan-out: a query bound to a city
type SearchTarget struct {
	Query   string `json:"query"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	URL     string `json:"url"`
}

// ScrapeRequest is the fan-out request accepted by the HTTP API and the CLI
type ScrapeRequest struct {
	Query   string   `json:"query"`
	Country string   `json:"country,omitempty"`
	States  []string `json:"states,omitempty"`
	Cities  []string `json:"cities,omitempty"`
	URLs    []string `json:"urls,omitempty"`

	// Optional per-request overrides of the pool configuration
	SessionCount    int  `json:"session_count,omitempty"`
	SessionCapacity int  `json:"session_capacity,omitempty"`
	Details         bool `json:"details,omitempty"`
	Store           bool `json:"store,omitempty"`
}
