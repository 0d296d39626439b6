package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/lead-miners/scout/pkg/models"
)

func TestSearchURL(t *testing.T) {
	got := SearchURL(models.SearchTarget{Query: "coffee shops", City: "Austin", State: "TX", Country: "US"})
	want := "https://www.google.com/maps/search/coffee%20shops%20in%20Austin%20TX%20US?hl=en"
	if got != want {
		t.Errorf("SearchURL = %s, want %s", got, want)
	}
}

func TestExpandExplicitCities(t *testing.T) {
	req := models.ScrapeRequest{Query: "dentist", Country: "US", Cities: []string{"Austin", "Dallas"}}

	targets, err := Expand(context.Background(), nil, req)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(targets))
	}
	if targets[0].City != "Austin" || !strings.Contains(targets[0].URL, "dentist") {
		t.Errorf("Unexpected first target: %+v", targets[0])
	}
}

func TestExpandExplicitURLs(t *testing.T) {
	req := models.ScrapeRequest{URLs: []string{"https://example.com/a", "https://example.com/b"}}

	targets, err := Expand(context.Background(), nil, req)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(targets) != 2 || targets[1].URL != "https://example.com/b" {
		t.Errorf("Unexpected targets: %+v", targets)
	}
}

func TestExpandRequiresQuery(t *testing.T) {
	if _, err := Expand(context.Background(), nil, models.ScrapeRequest{Cities: []string{"Austin"}}); err == nil {
		t.Error("Expected error for missing query")
	}
}

func TestExpandViaAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSCAPI-KEY") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/countries/US/states"):
			json.NewEncoder(w).Encode([]Place{{Name: "Texas", ISO2: "TX"}})
		case strings.HasSuffix(r.URL.Path, "/states/TX/cities"):
			json.NewEncoder(w).Encode([]Place{{Name: "Austin"}, {Name: "Dallas"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	req := models.ScrapeRequest{Query: "plumber", Country: "US"}

	targets, err := Expand(context.Background(), client, req)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(targets))
	}
	if targets[0].State != "TX" || targets[0].City != "Austin" {
		t.Errorf("Unexpected target: %+v", targets[0])
	}
}

func TestClientPagination(t *testing.T) {
	// 250 cities: pages of 100, 100, 50
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		start := (page - 1) * pageSize
		var places []Place
		for i := start; i < start+pageSize && i < 250; i++ {
			places = append(places, Place{Name: fmt.Sprintf("City %d", i)})
		}
		json.NewEncoder(w).Encode(places)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k")
	cities, err := client.Cities(context.Background(), "US", "TX")
	if err != nil {
		t.Fatalf("Cities failed: %v", err)
	}
	if len(cities) != 250 {
		t.Errorf("Expected 250 cities across 3 pages, got %d", len(cities))
	}
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k")
	if _, err := client.States(context.Background(), "US"); err == nil {
		t.Error("Expected error on non-200 status")
	}
}
