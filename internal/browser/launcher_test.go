package browser

import (
	"context"
	"testing"
	"time"
)

func TestNewChromeLauncherDefaults(t *testing.T) {
	l := NewChromeLauncher(Options{ChromePath: "/opt/chrome/chrome"})
	if l.opts.PageTimeout != 60*time.Second {
		t.Errorf("Expected 60s default page timeout, got %s", l.opts.PageTimeout)
	}
	if l.opts.ChromePath != "/opt/chrome/chrome" {
		t.Errorf("Explicit chrome path overwritten: %s", l.opts.ChromePath)
	}
}

func TestLaunchFailureBenchesProxy(t *testing.T) {
	var benched []string
	l := NewChromeLauncher(Options{
		Headless:    true,
		ChromePath:  "/nonexistent/chrome-binary",
		PageTimeout: time.Second,
		NextProxy:   func() string { return "socks5://127.0.0.1:9" },
		ProxyFailed: func(p string) { benched = append(benched, p) },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := l.Launch(ctx); err == nil {
		t.Fatal("Expected launch failure with a bogus chrome path")
	}
	if len(benched) != 1 || benched[0] != "socks5://127.0.0.1:9" {
		t.Errorf("Proxy failure not reported to the pool: %v", benched)
	}
}
