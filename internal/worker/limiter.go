package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces out requests per host so a long range of downloads does
// not hammer the ministry's server
type Limiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

// NewLimiter creates a new rate limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		hosts: make(map[string]*rate.Limiter),
		limit: limit,
		burst: burst,
	}
}

// Wait blocks until a request to the host of rawURL may be sent.
// A positive crawlDelay, as announced in robots.txt, slows the host down
// to one request per crawlDelay when that is stricter than the configured
// rate. It never speeds a host up.
func (l *Limiter) Wait(ctx context.Context, rawURL string, crawlDelay time.Duration) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}

	return l.forHost(host, crawlDelay).Wait(ctx)
}

// forHost returns the limiter of host, tightened to crawlDelay if needed
func (l *Limiter) forHost(host string, crawlDelay time.Duration) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.hosts[host]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.hosts[host] = limiter
	}

	if crawlDelay > 0 {
		if every := rate.Every(crawlDelay); every < limiter.Limit() {
			limiter.SetLimit(every)
			limiter.SetBurst(1)
		}
	}
	return limiter
}

// Limit reports the current rate for host
func (l *Limiter) Limit(host string) rate.Limit {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.hosts[host]; ok {
		return limiter.Limit()
	}
	return l.limit
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
