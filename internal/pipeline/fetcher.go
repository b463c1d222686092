package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/vitalstats/internal/model"
	"github.com/ppiankov/vitalstats/internal/util"
	"github.com/ppiankov/vitalstats/internal/worker"
)

// ErrDisallowed is wrapped by FetchError when robots.txt forbids a download
var ErrDisallowed = errors.New("disallowed by robots.txt")

// FetchError reports a spreadsheet that could not be retrieved: a non-2xx
// response, a transport failure, or a robots.txt denial.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the file does not exist, which is how the
// ministry answers for months that are not published yet
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// FetchMeta contains HTTP metadata of a download
type FetchMeta struct {
	StatusCode   int
	ContentType  string
	LastModified string
	ETag         string
}

// FetchResult contains the downloaded bytes and metadata
type FetchResult struct {
	Body     []byte
	Meta     FetchMeta
	FinalURL string
}

// Fetcher downloads files politely: one host-wide rate limit and,
// optionally, robots.txt compliance
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewHTTPClient builds the client shared by the fetcher and the robots checker
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureTLS, //nolint:gosec // opt-in flag
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
}

// NewFetcher creates a Fetcher. limiter and robots may be nil.
func NewFetcher(client *http.Client, userAgent string, maxBytes int64, limiter *worker.Limiter, robots *util.RobotsChecker) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}
	return &Fetcher{
		httpClient: client,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
		limiter:    limiter,
		robots:     robots,
	}
}

// Fetch downloads rawURL. Failures caused by the remote side are returned
// as *FetchError; context cancellation is returned as is.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, &FetchError{URL: rawURL, Err: err}
		}
		if !allowed {
			return nil, &FetchError{URL: rawURL, Err: ErrDisallowed}
		}
		crawlDelay = delay
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/vnd.ms-excel,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	meta := FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("body exceeds %d bytes", f.maxBytes)}
	}

	return &FetchResult{
		Body:     body,
		Meta:     meta,
		FinalURL: resp.Request.URL.String(),
	}, nil
}
