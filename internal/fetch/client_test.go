package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient returns a Client paced fast enough for tests.
func newTestClient(opts ...Option) *Client {
	base := []Option{
		WithDelay(time.Millisecond),
		WithJitter(0),
		WithTimeout(5 * time.Second),
	}
	return NewClient(append(base, opts...)...)
}

// TestClientFetch tests basic fetching and retry behavior.
func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns page body on success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer srv.Close()

		body, err := newTestClient().Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "<html><body>hello</body></html>" {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		client := newTestClient(WithUserAgent("test-agent/1.0"))
		if _, err := client.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ua := gotUA.Load(); ua != "test-agent/1.0" {
			t.Errorf("User-Agent = %v, want test-agent/1.0", ua)
		}
	})

	t.Run("retries transient 500 and succeeds", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte("recovered"))
		}))
		defer srv.Close()

		body, err := newTestClient(WithMaxRetries(3)).Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "recovered" {
			t.Errorf("unexpected body: %q", body)
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 requests, got %d", calls.Load())
		}
	})

	t.Run("permanent 404 fails without retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(WithMaxRetries(3)).Fetch(context.Background(), srv.URL)
		if err == nil {
			t.Fatal("expected error")
		}
		if IsTransient(err) {
			t.Error("expected permanent classification for 404")
		}
		if calls.Load() != 1 {
			t.Errorf("expected exactly 1 request, got %d", calls.Load())
		}
	})

	t.Run("exhausted retries surface the transient error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := newTestClient(WithMaxRetries(2)).Fetch(context.Background(), srv.URL)
		if err == nil {
			t.Fatal("expected error")
		}
		if !IsTransient(err) {
			t.Error("expected transient classification for 429")
		}

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatal("expected *FetchError")
		}
		if fetchErr.StatusCode != http.StatusTooManyRequests {
			t.Errorf("StatusCode = %d, want 429", fetchErr.StatusCode)
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 requests (1 + 2 retries), got %d", calls.Load())
		}
	})

	t.Run("body reads are capped", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(make([]byte, 1024))
		}))
		defer srv.Close()

		body, err := newTestClient(WithMaxBodySize(16)).Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body) != 16 {
			t.Errorf("expected 16 bytes, got %d", len(body))
		}
	})

	t.Run("cancelled context stops the fetch", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestClient().Fetch(ctx, srv.URL)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestIsTransientStatus tests status classification.
func TestIsTransientStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusGone, false},
	}

	for _, tt := range tests {
		if got := isTransientStatus(tt.status); got != tt.want {
			t.Errorf("isTransientStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
