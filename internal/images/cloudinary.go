// Package images validates hosted-image references. The backend never touches
// image bytes; it only checks that a URL points at our Cloudinary account's
// upload path and remembers the public id so the asset can be deleted later.
package images

import (
	"errors"
	"regexp"
	"strings"
)

// Ref is a stored image reference.
type Ref struct {
	PublicID string `dynamodbav:"public_id" json:"public_id"`
	URL      string `dynamodbav:"url" json:"url"`
}

var cloudinaryPattern = regexp.MustCompile(`^https://res\.cloudinary\.com/[a-zA-Z0-9-]+/image/upload/v\d+/.+$`)

var ErrInvalidURL = errors.New("invalid cloudinary url")

// IsValidURL reports whether url matches the expected Cloudinary upload shape.
func IsValidURL(url string) bool {
	return cloudinaryPattern.MatchString(url)
}

// ParseURL validates url and extracts its public id (the last path segment
// without the file extension).
func ParseURL(url string) (Ref, error) {
	if !IsValidURL(url) {
		return Ref{}, ErrInvalidURL
	}
	last := url[strings.LastIndex(url, "/")+1:]
	if i := strings.Index(last, "."); i >= 0 {
		last = last[:i]
	}
	return Ref{PublicID: last, URL: url}, nil
}

// ParseURLs validates a list of URLs, failing on the first invalid one.
func ParseURLs(urls []string) ([]Ref, error) {
	refs := make([]Ref, 0, len(urls))
	for _, u := range urls {
		ref, err := ParseURL(u)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
