package images

import (
	"errors"
	"testing"
)

func TestIsValidURL(t *testing.T) {
	cases := []struct {
		url   string
		valid bool
	}{
		{"https://res.cloudinary.com/trendora/image/upload/v1712345678/products/widget.jpg", true},
		{"https://res.cloudinary.com/my-cloud/image/upload/v1/avatar.png", true},
		{"http://res.cloudinary.com/trendora/image/upload/v1/avatar.png", false},
		{"https://res.cloudinary.com/trendora/video/upload/v1/clip.mp4", false},
		{"https://res.cloudinary.com/trendora/image/upload/avatar.png", false},
		{"https://example.com/image/upload/v1/avatar.png", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidURL(tc.url); got != tc.valid {
			t.Fatalf("IsValidURL(%q) = %v, want %v", tc.url, got, tc.valid)
		}
	}
}

func TestParseURLExtractsPublicID(t *testing.T) {
	ref, err := ParseURL("https://res.cloudinary.com/trendora/image/upload/v1712345678/widget.jpg")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ref.PublicID != "widget" {
		t.Fatalf("expected public id 'widget', got %q", ref.PublicID)
	}

	if _, err := ParseURL("https://example.com/widget.jpg"); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestParseURLsFailsOnFirstInvalid(t *testing.T) {
	urls := []string{
		"https://res.cloudinary.com/trendora/image/upload/v1/a.jpg",
		"not-a-url",
	}
	if _, err := ParseURLs(urls); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}

	refs, err := ParseURLs(urls[:1])
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(refs) != 1 || refs[0].PublicID != "a" {
		t.Fatalf("unexpected refs %+v", refs)
	}
}
