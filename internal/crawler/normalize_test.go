package crawler

import (
	"errors"
	"net/url"
	"testing"
)

// mustParse parses a URL or fails the test. Test helper for building
// base URLs.
func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", raw, err)
	}
	return u
}

// TestNormalize tests URL canonicalization with absolute and relative
// references.
func TestNormalize(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://example.com/dir/page.html")

	tests := []struct {
		name string
		raw  string
		base *url.URL
		want string
	}{
		{
			name: "absolute URL unchanged",
			raw:  "https://example.com/about",
			base: nil,
			want: "https://example.com/about",
		},
		{
			name: "empty path becomes root",
			raw:  "http://example.com",
			base: nil,
			want: "http://example.com/",
		},
		{
			name: "fragment stripped",
			raw:  "https://example.com/page#section-2",
			base: nil,
			want: "https://example.com/page",
		},
		{
			name: "query preserved",
			raw:  "https://example.com/search?q=go&page=2",
			base: nil,
			want: "https://example.com/search?q=go&page=2",
		},
		{
			name: "scheme and host lowercased",
			raw:  "HTTPS://EXAMPLE.COM/Path/File.HTML",
			base: nil,
			want: "https://example.com/Path/File.HTML",
		},
		{
			name: "bare relative resolved against base directory",
			raw:  "about",
			base: base,
			want: "https://example.com/dir/about",
		},
		{
			name: "root-relative resolved against base host",
			raw:  "/about",
			base: base,
			want: "https://example.com/about",
		},
		{
			name: "dot segment resolved",
			raw:  "./img/logo.png",
			base: base,
			want: "https://example.com/dir/img/logo.png",
		},
		{
			name: "parent segment resolved",
			raw:  "../up.html",
			base: base,
			want: "https://example.com/up.html",
		},
		{
			name: "protocol-relative takes base scheme",
			raw:  "//cdn.example.net/lib.js",
			base: base,
			want: "https://cdn.example.net/lib.js",
		},
		{
			name: "absolute reference ignores base",
			raw:  "http://other.com/x",
			base: base,
			want: "http://other.com/x",
		},
		{
			name: "fragment-only reference resolves to the page itself",
			raw:  "#top",
			base: base,
			want: "https://example.com/dir/page.html",
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  https://example.com/padded  ",
			base: nil,
			want: "https://example.com/padded",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.raw, tt.base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got.String(), tt.want)
			}
		})
	}
}

// TestNormalizeErrors tests the failure cases.
func TestNormalizeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		base    *url.URL
		wantErr error
	}{
		{
			name:    "empty string",
			raw:     "",
			base:    nil,
			wantErr: ErrInvalidURL,
		},
		{
			name:    "whitespace only",
			raw:     "   ",
			base:    nil,
			wantErr: ErrInvalidURL,
		},
		{
			name:    "relative without base",
			raw:     "/about",
			base:    nil,
			wantErr: ErrInvalidURL,
		},
		{
			name:    "malformed percent encoding",
			raw:     "http://example.com/%zz",
			base:    nil,
			wantErr: ErrInvalidURL,
		},
		{
			name:    "space in host",
			raw:     "http://exa mple.com/",
			base:    nil,
			wantErr: ErrInvalidURL,
		},
		{
			name:    "empty host",
			raw:     "http:///path",
			base:    nil,
			wantErr: ErrInvalidURL,
		},
		{
			name:    "ftp scheme",
			raw:     "ftp://example.com/file",
			base:    nil,
			wantErr: ErrUnsupportedScheme,
		},
		{
			name:    "mailto scheme",
			raw:     "mailto:user@example.com",
			base:    nil,
			wantErr: ErrUnsupportedScheme,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Normalize(tt.raw, tt.base)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Normalize(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

// TestNormalizeDeduplicationKey verifies that different raw spellings
// of the same resource normalize to the same string, the property the
// frontier's deduplication depends on.
func TestNormalizeDeduplicationKey(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://example.com/")

	pairs := []struct {
		name string
		a    string
		b    string
	}{
		{
			name: "fragment does not distinguish",
			a:    "https://example.com/a#x",
			b:    "https://example.com/a",
		},
		{
			name: "relative equals absolute",
			a:    "/a",
			b:    "https://example.com/a",
		},
		{
			name: "host case does not distinguish",
			a:    "https://EXAMPLE.com/a",
			b:    "https://example.com/a",
		},
		{
			name: "root with and without slash",
			a:    "https://example.com",
			b:    "https://example.com/",
		},
	}

	for _, tt := range pairs {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ua, err := Normalize(tt.a, base)
			if err != nil {
				t.Fatalf("normalize %q: %v", tt.a, err)
			}
			ub, err := Normalize(tt.b, base)
			if err != nil {
				t.Fatalf("normalize %q: %v", tt.b, err)
			}
			if ua.String() != ub.String() {
				t.Errorf("expected %q and %q to normalize equally, got %q and %q",
					tt.a, tt.b, ua.String(), ub.String())
			}
		})
	}
}

// TestNormalizeDoesNotAlterQueryCase verifies that path and query keep
// their casing; only scheme and host fold.
func TestNormalizeDoesNotAlterQueryCase(t *testing.T) {
	t.Parallel()

	got, err := Normalize("https://example.com/CaseSensitive?Key=Value", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://example.com/CaseSensitive?Key=Value"
	if got.String() != want {
		t.Errorf("got %q, want %q", got.String(), want)
	}
}
