package crawler

import (
	"strings"
	"testing"
)

// TestClassifierClassify tests the scope decision for URLs against a
// seed host.
func TestClassifierClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		seedHost        string
		maxURLLength    int
		excludePrefixes []string
		url             string
		want            Classification
	}{
		{
			name:         "same host is internal",
			seedHost:     "example.com",
			maxURLLength: 300,
			url:          "https://example.com/about",
			want:         ClassInternal,
		},
		{
			name:         "different host is external",
			seedHost:     "example.com",
			maxURLLength: 300,
			url:          "https://other.com/x",
			want:         ClassExternal,
		},
		{
			name:         "host comparison is case-insensitive",
			seedHost:     "example.com",
			maxURLLength: 300,
			url:          "https://EXAMPLE.com/about",
			want:         ClassInternal,
		},
		{
			name:         "subdomain is external",
			seedHost:     "example.com",
			maxURLLength: 300,
			url:          "https://www.example.com/",
			want:         ClassExternal,
		},
		{
			name:         "different port is external",
			seedHost:     "example.com:8080",
			maxURLLength: 300,
			url:          "https://example.com:9090/",
			want:         ClassExternal,
		},
		{
			name:            "exclusion prefix bars internal URL",
			seedHost:        "example.com",
			maxURLLength:    300,
			excludePrefixes: []string{"/img"},
			url:             "https://example.com/img/logo.png",
			want:            ClassExcluded,
		},
		{
			name:            "exclusion prefix bars external URL too",
			seedHost:        "example.com",
			maxURLLength:    300,
			excludePrefixes: []string{"/img"},
			url:             "https://other.com/img/logo.png",
			want:            ClassExcluded,
		},
		{
			name:            "prefix is a raw string match from path start",
			seedHost:        "example.com",
			maxURLLength:    300,
			excludePrefixes: []string{"/img"},
			url:             "https://example.com/imgs",
			want:            ClassExcluded,
		},
		{
			name:            "prefix match is case-sensitive",
			seedHost:        "example.com",
			maxURLLength:    300,
			excludePrefixes: []string{"/Admin"},
			url:             "https://example.com/admin",
			want:            ClassInternal,
		},
		{
			name:            "prefix must match path start",
			seedHost:        "example.com",
			maxURLLength:    300,
			excludePrefixes: []string{"/img"},
			url:             "https://example.com/static/img/logo.png",
			want:            ClassInternal,
		},
		{
			name:            "second prefix in list matches",
			seedHost:        "example.com",
			maxURLLength:    300,
			excludePrefixes: []string{"/admin", "/logout"},
			url:             "https://example.com/logout",
			want:            ClassExcluded,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewClassifier(tt.seedHost, tt.maxURLLength, tt.excludePrefixes)
			u := mustParse(t, tt.url)

			if got := c.Classify(u); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// TestClassifierLengthBoundary verifies the inclusive length boundary:
// a URL of exactly maxURLLength is excluded, one character shorter is not.
func TestClassifierLengthBoundary(t *testing.T) {
	t.Parallel()

	u := mustParse(t, "https://example.com/"+strings.Repeat("a", 40))
	length := len(u.String())

	t.Run("exact length is excluded", func(t *testing.T) {
		t.Parallel()

		c := NewClassifier("example.com", length, nil)
		if got := c.Classify(u); got != ClassExcluded {
			t.Errorf("expected ClassExcluded at exact length %d, got %v", length, got)
		}
	})

	t.Run("one below the limit is not excluded", func(t *testing.T) {
		t.Parallel()

		c := NewClassifier("example.com", length+1, nil)
		if got := c.Classify(u); got != ClassInternal {
			t.Errorf("expected ClassInternal below the limit, got %v", got)
		}
	})
}

// TestClassifierCheckOrder verifies the fixed evaluation order:
// length, then exclusion prefixes, then host. A URL that trips several
// rules always lands on the first one.
func TestClassifierCheckOrder(t *testing.T) {
	t.Parallel()

	// External host, excluded prefix, and over the length limit at once
	u := mustParse(t, "https://other.com/admin/"+strings.Repeat("x", 100))

	t.Run("length wins over prefix and host", func(t *testing.T) {
		t.Parallel()

		c := NewClassifier("example.com", 50, []string{"/admin"})
		if got := c.Classify(u); got != ClassExcluded {
			t.Errorf("expected ClassExcluded, got %v", got)
		}
	})

	t.Run("prefix wins over host", func(t *testing.T) {
		t.Parallel()

		c := NewClassifier("example.com", 1000, []string{"/admin"})
		if got := c.Classify(u); got != ClassExcluded {
			t.Errorf("expected ClassExcluded, got %v", got)
		}
	})

	t.Run("host check runs last", func(t *testing.T) {
		t.Parallel()

		c := NewClassifier("example.com", 1000, nil)
		if got := c.Classify(u); got != ClassExternal {
			t.Errorf("expected ClassExternal, got %v", got)
		}
	})
}

// TestClassifierDeterminism verifies that classification is a pure
// function of its inputs.
func TestClassifierDeterminism(t *testing.T) {
	t.Parallel()

	c := NewClassifier("example.com", 300, []string{"/img"})
	u := mustParse(t, "https://example.com/img/logo.png")

	first := c.Classify(u)
	for i := 0; i < 10; i++ {
		if got := c.Classify(u); got != first {
			t.Fatalf("classification changed between calls: %v then %v", first, got)
		}
	}
}

// TestClassificationString tests the human-readable names.
func TestClassificationString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		c    Classification
		want string
	}{
		{ClassInternal, "internal"},
		{ClassExternal, "external"},
		{ClassExcluded, "excluded"},
		{Classification(99), "unknown"},
	}

	for _, tt := range tests {
		tt := tt
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Classification(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
