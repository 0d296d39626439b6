// Package store persists scraped listings. The Redis implementation treats
// each listing as one JSON document keyed by a stable hash of its place URL
// so repeated runs upsert instead of duplicating.
package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"

	"github.com/lead-miners/scout/pkg/models"
)

// Store persists listings by run
type Store interface {
	// UpsertListings writes the listings and associates them with runID.
	// Existing documents for the same place are overwritten.
	UpsertListings(ctx context.Context, runID string, listings []models.Listing) error

	// RunListingCount reports how many listings a run has stored so far.
	RunListingCount(ctx context.Context, runID string) (int64, error)

	Close() error
}

// DocumentKey derives the stable document key for a listing. Place URL is
// the identity when present; name+city otherwise.
func DocumentKey(l models.Listing) string {
	id := l.PlaceURL
	if id == "" {
		id = l.Name + "|" + l.City
	}
	sum := sha1.Sum([]byte(id))
	return "listing:" + hex.EncodeToString(sum[:])
}
