package scraper

import (
	"testing"

	"github.com/lead-miners/scout/pkg/models"
)

func TestMergeDetails(t *testing.T) {
	listings := []models.Listing{
		{Name: "Ace Plumbing", PlaceURL: "https://maps.example/place/1", Rating: 4.5, City: "Austin"},
		{Name: "Best Pipes", PlaceURL: "https://maps.example/place/2", Phone: "old"},
		{Name: "No Detail", PlaceURL: "https://maps.example/place/3", Address: "1 Main St"},
	}
	details := []models.Listing{
		{PlaceURL: "https://maps.example/place/1", Address: "500 Oak Ave", Phone: "(512) 555-0100", Website: "https://aceplumbing.example"},
		{PlaceURL: "https://maps.example/place/2", Phone: "(512) 555-0200", Description: "Family owned since 1982"},
	}

	merged := mergeDetails(listings, details)

	if len(merged) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(merged))
	}

	first := merged[0]
	if first.Address != "500 Oak Ave" || first.Phone != "(512) 555-0100" {
		t.Errorf("detail fields not merged: %+v", first)
	}
	if first.Rating != 4.5 || first.City != "Austin" {
		t.Errorf("search fields overwritten: %+v", first)
	}

	if merged[1].Phone != "(512) 555-0200" {
		t.Errorf("non-empty detail field should win, got %q", merged[1].Phone)
	}
	if merged[1].Description != "Family owned since 1982" {
		t.Errorf("description not merged: %q", merged[1].Description)
	}

	// No matching detail leaves the listing untouched
	if merged[2] != listings[2] {
		t.Errorf("listing without detail changed: %+v", merged[2])
	}
}

func TestMergeDetailsEmptyDetailDoesNotErase(t *testing.T) {
	listings := []models.Listing{
		{Name: "Kept", PlaceURL: "https://maps.example/place/9", Address: "Old Address", Rating: 4.0},
	}
	details := []models.Listing{
		{PlaceURL: "https://maps.example/place/9"},
	}

	merged := mergeDetails(listings, details)
	if merged[0].Address != "Old Address" || merged[0].Rating != 4.0 {
		t.Errorf("empty detail fields erased search data: %+v", merged[0])
	}
}
