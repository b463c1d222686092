package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/vitalstats/internal/cache"
	"github.com/temoto/robotstxt"
)

const robotsNamespace = "robots"

// failureTTL bounds how long an unreachable robots.txt is treated as empty
const failureTTL = time.Minute

// RobotsChecker checks robots.txt compliance
type RobotsChecker struct {
	cache      cache.Cache
	ttl        time.Duration
	httpClient *http.Client
	userAgent  string
}

// NewRobotsChecker creates a new robots.txt checker.
// Rules are kept in store for ttl per host.
func NewRobotsChecker(userAgent string, client *http.Client, store cache.Cache, ttl time.Duration) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsChecker{
		cache:      store,
		ttl:        ttl,
		httpClient: client,
		userAgent:  userAgent,
	}
}

// CanFetch checks if the URL can be fetched according to robots.txt
// Returns (allowed, crawlDelay, error)
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)

	data, err := r.getRobotsData(ctx, parsed.Host, robotsURL)
	if err != nil {
		// If we can't fetch robots.txt, allow by default
		return true, 0, nil
	}

	agent := NormalizeUserAgent(r.userAgent)
	allowed := data.TestAgent(parsed.Path, agent)

	crawlDelay := time.Duration(0)
	if group := data.FindGroup(agent); group != nil {
		crawlDelay = group.CrawlDelay
	}

	return allowed, crawlDelay, nil
}

// getRobotsData returns the parsed robots.txt of host, fetching it on a cache miss
func (r *RobotsChecker) getRobotsData(ctx context.Context, host string, robotsURL string) (*robotstxt.RobotsData, error) {
	key := cache.CacheKey(robotsNamespace, host)
	if body, found := r.cache.Get(key); found {
		return robotstxt.FromBytes(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			r.rememberFailure(key)
		}
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Missing robots.txt allows everything
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		_ = r.cache.Set(key, []byte{}, r.ttl)
		return robotstxt.FromBytes(nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.rememberFailure(key)
		return nil, fmt.Errorf("fetch robots.txt: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	_ = r.cache.Set(key, body, r.ttl)
	return data, nil
}

// rememberFailure caches an empty robots.txt for host so a failing server
// is not asked again on every download
func (r *RobotsChecker) rememberFailure(key string) {
	ttl := failureTTL
	if r.ttl > 0 && r.ttl < ttl {
		ttl = r.ttl
	}
	_ = r.cache.Set(key, []byte{}, ttl)
}

// NormalizeUserAgent normalizes the user agent string for robots.txt matching
func NormalizeUserAgent(ua string) string {
	// Extract the product name (first token)
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		// Remove version if present
		product := strings.Split(parts[0], "/")[0]
		return product
	}
	return ua
}
