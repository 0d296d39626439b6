package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestHostLimiterBurst(t *testing.T) {
	hl := NewHostLimiter(1.0, 2)

	if !hl.Allow("https://maps.example.com/search/a") {
		t.Error("First request within burst should be allowed")
	}
	if !hl.Allow("https://maps.example.com/search/b") {
		t.Error("Second request within burst should be allowed")
	}
	if hl.Allow("https://maps.example.com/search/c") {
		t.Error("Third request should exceed the burst")
	}
}

func TestHostLimiterSeparateHosts(t *testing.T) {
	hl := NewHostLimiter(1.0, 1)

	if !hl.Allow("https://a.example.com/") {
		t.Error("Host a should have its own bucket")
	}
	if !hl.Allow("https://b.example.com/") {
		t.Error("Host b should have its own bucket")
	}
	if hl.Allow("https://a.example.com/") {
		t.Error("Host a bucket should be drained")
	}
}

func TestHostLimiterInvalidURL(t *testing.T) {
	hl := NewHostLimiter(1.0, 1)
	if !hl.Allow("://not a url") {
		t.Error("Invalid URLs pass through, failure belongs to the caller")
	}
}

func TestHostLimiterWaitCancellation(t *testing.T) {
	hl := NewHostLimiter(0.1, 1)
	hl.Allow("https://maps.example.com/") // drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := hl.Wait(ctx, "https://maps.example.com/"); err == nil {
		t.Error("Wait should fail when the context expires first")
	}
}
