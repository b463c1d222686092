package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/vitalstats/internal/cache"
	"github.com/ppiankov/vitalstats/internal/model"
	"github.com/ppiankov/vitalstats/internal/util"
	"github.com/ppiankov/vitalstats/internal/worker"
)

func testFetcher(robots *util.RobotsChecker) *Fetcher {
	cfg := model.DefaultConfig().HTTP
	cfg.Timeout = 5 * time.Second
	return NewFetcher(NewHTTPClient(cfg), "vitalstats-test", 1<<20, worker.NewLimiter(1000, 10), robots)
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "vitalstats-test" {
			t.Errorf("unexpected User-Agent %q", got)
		}
		w.Header().Set("Content-Type", "application/vnd.ms-excel")
		w.Header().Set("Last-Modified", "Tue, 01 Mar 2022 00:00:00 GMT")
		_, _ = fmt.Fprint(w, "sheet-bytes")
	}))
	defer server.Close()

	result, err := testFetcher(nil).Fetch(context.Background(), server.URL+"/s2022/xls/202201.xlsx")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result.Body) != "sheet-bytes" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if result.Meta.StatusCode != http.StatusOK || result.Meta.ContentType != "application/vnd.ms-excel" {
		t.Errorf("Unexpected meta: %+v", result.Meta)
	}
	if result.Meta.LastModified == "" {
		t.Error("Expected Last-Modified to be recorded")
	}
}

func TestFetch_NotFound(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	url := server.URL + "/s2099/xls/209912.xlsx"
	_, err := testFetcher(nil).Fetch(context.Background(), url)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %v", err)
	}
	if !fetchErr.NotFound() || fetchErr.URL != url {
		t.Errorf("Unexpected error fields: %+v", fetchErr)
	}
	if got := err.Error(); got != "fetch "+url+": unexpected status: 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected a single attempt, got %d", attempts.Load())
	}
}

func TestFetch_ServerErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testFetcher(nil).Fetch(context.Background(), server.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 FetchError, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + "/gone"
	server.Close()

	_, err := testFetcher(nil).Fetch(context.Background(), url)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %v", err)
	}
	if fetchErr.StatusCode != 0 || fetchErr.Err == nil {
		t.Errorf("Expected transport failure, got %+v", fetchErr)
	}
}

func TestFetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("x", 64))
	}))
	defer server.Close()

	f := NewFetcher(nil, "vitalstats-test", 16, nil, nil)
	_, err := f.Fetch(context.Background(), server.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || !strings.Contains(err.Error(), "exceeds 16 bytes") {
		t.Fatalf("Expected size limit error, got %v", err)
	}
}

func TestFetch_RobotsDisallow(t *testing.T) {
	var downloads atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /geppo/\n")
			return
		}
		downloads.Add(1)
	}))
	defer server.Close()

	robots := util.NewRobotsChecker("vitalstats-test", nil, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	_, err := testFetcher(robots).Fetch(context.Background(), server.URL+"/geppo/s2022/xls/202201.xlsx")

	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("Expected ErrDisallowed, got %v", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Error("Expected robots denial to be a *FetchError")
	}
	if downloads.Load() != 0 {
		t.Errorf("Expected no download, got %d", downloads.Load())
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testFetcher(nil).Fetch(ctx, server.URL)
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		t.Fatalf("Cancellation must not be a FetchError: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
