package download

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func parseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return u
}

// TestDerivePath tests URL to filesystem path mapping.
func TestDerivePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rawURL string
		isHTML bool
		want   string
	}{
		{
			name:   "root HTML page becomes index",
			rawURL: "http://example.com/",
			isHTML: true,
			want:   filepath.Join("example.com", "index.html"),
		},
		{
			name:   "directory-like HTML path gets index appended",
			rawURL: "http://example.com/docs/",
			isHTML: true,
			want:   filepath.Join("example.com", "docs", "index.html"),
		},
		{
			name:   "extensionless HTML page gets index appended",
			rawURL: "http://example.com/about",
			isHTML: true,
			want:   filepath.Join("example.com", "about", "index.html"),
		},
		{
			name:   "explicit html filename kept as is",
			rawURL: "http://example.com/page.html",
			isHTML: true,
			want:   filepath.Join("example.com", "page.html"),
		},
		{
			name:   "non-HTML resource saved verbatim",
			rawURL: "http://example.com/img/logo.png",
			isHTML: false,
			want:   filepath.Join("example.com", "img", "logo.png"),
		},
		{
			name:   "host with port becomes directory name",
			rawURL: "http://example.com:8080/a.js",
			isHTML: false,
			want:   filepath.Join("example.com:8080", "a.js"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := derivePath(parseURL(t, tt.rawURL), tt.isHTML)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("derivePath() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("non-HTML root has no filename", func(t *testing.T) {
		t.Parallel()

		_, err := derivePath(parseURL(t, "http://example.com/"), false)
		if !errors.Is(err, ErrEmptyPath) {
			t.Errorf("expected ErrEmptyPath, got %v", err)
		}
	})
}

// TestDownloaderSave tests writing documents to disk.
func TestDownloaderSave(t *testing.T) {
	t.Parallel()

	t.Run("writes file with parent directories", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		d := NewDownloader(root)

		dest, err := d.Save(parseURL(t, "http://example.com/img/logo.png"), false, []byte("png-bytes"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(dest) //nolint:gosec // Path produced by the code under test
		if err != nil {
			t.Fatalf("read saved file: %v", err)
		}
		if string(data) != "png-bytes" {
			t.Errorf("unexpected file content: %q", data)
		}

		want := filepath.Join(root, "example.com", "img", "logo.png")
		if dest != want {
			t.Errorf("saved to %q, want %q", dest, want)
		}
	})

	t.Run("HTML root page saved as index.html", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		d := NewDownloader(root)

		dest, err := d.Save(parseURL(t, "http://example.com/"), true, []byte("<html></html>"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(dest) != "index.html" {
			t.Errorf("expected index.html, got %q", dest)
		}
	})

	t.Run("refuses to overwrite existing file", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		d := NewDownloader(root)
		u := parseURL(t, "http://example.com/a.txt")

		if _, err := d.Save(u, false, []byte("first")); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		if _, err := d.Save(u, false, []byte("second")); !errors.Is(err, ErrFileExists) {
			t.Errorf("expected ErrFileExists, got %v", err)
		}

		// The first write survives
		data, err := os.ReadFile(filepath.Join(root, "example.com", "a.txt")) //nolint:gosec // Test-controlled path
		if err != nil {
			t.Fatalf("read saved file: %v", err)
		}
		if string(data) != "first" {
			t.Errorf("expected first write to survive, got %q", data)
		}
	})

	t.Run("rejects traversal outside the root", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		d := NewDownloader(filepath.Join(root, "mirror"))

		// Raw ".." segments survive url.Parse when not resolved
		u := &url.URL{Scheme: "http", Host: "..", Path: "/../escape.txt"}
		if _, err := d.Save(u, false, []byte("x")); !errors.Is(err, ErrPathEscapes) {
			t.Errorf("expected ErrPathEscapes, got %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "escape.txt")); !os.IsNotExist(err) {
			t.Error("traversal file must not exist outside the root")
		}
	})
}
