package proxy

import "testing"

func TestNextRoundRobin(t *testing.T) {
	p := NewPool([]string{"http://p1:8080", "http://p2:8080"})

	if got := p.Next(); got != "http://p1:8080" {
		t.Errorf("Expected p1 first, got %s", got)
	}
	if got := p.Next(); got != "http://p2:8080" {
		t.Errorf("Expected p2 second, got %s", got)
	}
	if got := p.Next(); got != "http://p1:8080" {
		t.Errorf("Expected rotation back to p1, got %s", got)
	}
}

func TestNextSkipsFailed(t *testing.T) {
	p := NewPool([]string{"http://p1:8080", "http://p2:8080"})
	p.MarkFailed("http://p1:8080")

	for i := 0; i < 3; i++ {
		if got := p.Next(); got != "http://p2:8080" {
			t.Errorf("Call %d: expected p2 while p1 is benched, got %s", i, got)
		}
	}

	p.MarkHealthy("http://p1:8080")
	seen := map[string]bool{}
	seen[p.Next()] = true
	seen[p.Next()] = true
	if !seen["http://p1:8080"] {
		t.Error("p1 should rejoin rotation after MarkHealthy")
	}
}

func TestNextEmptyPool(t *testing.T) {
	p := NewPool(nil)
	if got := p.Next(); got != "" {
		t.Errorf("Empty pool should return direct connection, got %q", got)
	}
}
