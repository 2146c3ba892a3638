package model

import (
	"testing"
	"time"
)

func TestPageIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{name: "plain html", contentType: "text/html", want: true},
		{name: "html with charset", contentType: "text/html; charset=utf-8", want: true},
		{name: "html uppercase", contentType: "Text/HTML", want: true},
		{name: "xhtml", contentType: "application/xhtml+xml", want: true},
		{name: "json", contentType: "application/json", want: false},
		{name: "plain text", contentType: "text/plain", want: false},
		{name: "png image", contentType: "image/png", want: false},
		{name: "missing content type", contentType: "", want: false},
		{name: "html with space before semicolon", contentType: "text/html ; charset=iso-8859-1", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &Page{ContentType: tt.contentType}
			if got := p.IsHTML(); got != tt.want {
				t.Errorf("IsHTML() with %q = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestPageIsImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{name: "png", contentType: "image/png", want: true},
		{name: "jpeg", contentType: "image/jpeg", want: true},
		{name: "html", contentType: "text/html", want: false},
		{name: "empty", contentType: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &Page{ContentType: tt.contentType}
			if got := p.IsImage(); got != tt.want {
				t.Errorf("IsImage() with %q = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestPageComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("hash of known content", func(t *testing.T) {
		t.Parallel()

		p := &Page{Body: []byte("hello")}
		p.ComputeHash()

		// SHA-256 of "hello"
		want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
		if p.Hash != want {
			t.Errorf("ComputeHash() = %q, want %q", p.Hash, want)
		}
	})

	t.Run("empty body yields empty hash", func(t *testing.T) {
		t.Parallel()

		p := &Page{}
		p.ComputeHash()

		if p.Hash != "" {
			t.Errorf("ComputeHash() on empty body = %q, want empty", p.Hash)
		}
	})

	t.Run("same content same hash", func(t *testing.T) {
		t.Parallel()

		a := &Page{Body: []byte("content")}
		b := &Page{Body: []byte("content")}
		a.ComputeHash()
		b.ComputeHash()

		if a.Hash != b.Hash {
			t.Errorf("identical bodies produced different hashes: %q vs %q", a.Hash, b.Hash)
		}
	})
}

func TestNewCrawlReport(t *testing.T) {
	t.Parallel()

	before := time.Now()
	r := NewCrawlReport("http://example.com/", "example.com")

	if r.Seed != "http://example.com/" {
		t.Errorf("Seed = %q, want %q", r.Seed, "http://example.com/")
	}
	if r.SeedHost != "example.com" {
		t.Errorf("SeedHost = %q, want %q", r.SeedHost, "example.com")
	}
	if r.StartedAt.Before(before) {
		t.Error("StartedAt should not be before report creation")
	}
}
