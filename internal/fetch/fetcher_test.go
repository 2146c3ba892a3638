package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestFetcherFetch tests basic document retrieval.
func TestFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("successful fetch returns page", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotAccept string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, "<html><body>hello</body></html>")
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithUserAgent("sitespider-test/1.0"))
		page, err := f.Fetch(context.Background(), srv.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if page.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", page.StatusCode)
		}
		if !page.IsHTML() {
			t.Errorf("expected HTML content type, got %q", page.ContentType)
		}
		if !strings.Contains(string(page.Body), "hello") {
			t.Errorf("unexpected body: %q", page.Body)
		}
		if page.Size != int64(len(page.Body)) {
			t.Errorf("size %d does not match body length %d", page.Size, len(page.Body))
		}
		if page.Hash == "" {
			t.Error("expected content hash to be set")
		}
		if gotUA != "sitespider-test/1.0" {
			t.Errorf("expected custom user agent, got %q", gotUA)
		}
		if gotAccept == "" {
			t.Error("expected Accept header to be sent")
		}
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client())
		if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); !errors.Is(err, ErrHTTPStatus) {
			t.Errorf("expected ErrHTTPStatus, got %v", err)
		}
	})

	t.Run("body is truncated at max size", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, strings.Repeat("x", 1024))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithMaxBodySize(100))
		page, err := f.Fetch(context.Background(), srv.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Size != 100 {
			t.Errorf("expected truncated size 100, got %d", page.Size)
		}
	})

	t.Run("cancelled context fails the fetch", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := NewFetcher(srv.Client())
		if _, err := f.Fetch(ctx, srv.URL+"/"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})

	t.Run("invalid URL is an error", func(t *testing.T) {
		t.Parallel()

		f := NewFetcher(http.DefaultClient)
		if _, err := f.Fetch(context.Background(), "http://\x00invalid"); err == nil {
			t.Error("expected error for invalid URL")
		}
	})
}
