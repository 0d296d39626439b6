// Package proxy rotates outbound proxies across browser sessions. Each
// launched browser process gets the next healthy proxy; a proxy that caused
// a launch failure is benched for a cooldown period.
package proxy

import (
	"sync"
	"time"
)

const failureCooldown = 5 * time.Minute

// Pool manages a list of proxies with rotation and failure tracking
type Pool struct {
	proxies []string
	index   int
	mu      sync.Mutex
	failed  map[string]time.Time
}

// NewPool creates a pool over the given proxy URLs. An empty list yields a
// pool whose Next always returns "", meaning a direct connection.
func NewPool(proxies []string) *Pool {
	return &Pool{
		proxies: proxies,
		failed:  make(map[string]time.Time),
	}
}

// Next returns the next healthy proxy, cycling round-robin. When every
// proxy is benched it returns the current one anyway rather than stalling
// session launches.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	start := p.index
	for {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		if failTime, ok := p.failed[proxy]; ok {
			if time.Since(failTime) < failureCooldown {
				if p.index == start {
					return proxy
				}
				continue
			}
			delete(p.failed, proxy)
		}
		return proxy
	}
}

// MarkFailed benches a proxy for the cooldown period
func (p *Pool) MarkFailed(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = time.Now()
}

// MarkHealthy clears a proxy's failure status
func (p *Pool) MarkHealthy(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}
