// Package resource loads pages and the stylesheets they link, from the
// local filesystem or over HTTP.
package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher resolves relative URIs against a base, which is either a
// network URL or a local directory, and fetches over HTTP or from disk.
type DefaultFetcher struct {
	base string
}

// NewFetcher creates a DefaultFetcher with the given base URL or
// directory. Relative URIs passed to Fetch are resolved against it.
func NewFetcher(base string) *DefaultFetcher {
	return &DefaultFetcher{base: base}
}

// Base returns the URL or directory relative URIs resolve against.
func (f *DefaultFetcher) Base() string {
	return f.base
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(uri string) ([]byte, string, error) {
	if IsNetworkURL(uri) {
		return fetchURL(uri)
	}
	if IsNetworkURL(f.base) {
		return fetchURL(ResolveURL(f.base, uri))
	}

	path := strings.TrimPrefix(uri, "file://")
	if !filepath.IsAbs(path) && f.base != "" {
		path = filepath.Join(f.base, filepath.FromSlash(path))
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, contentTypeOf(path), nil
}

// FetchCSS fetches a stylesheet URI and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func (f *DefaultFetcher) FetchCSS(uri string) (string, error) {
	body, contentType, err := f.Fetch(uri)
	if err != nil {
		return "", err
	}
	// Accept text/css, text/plain, or any text/* content type
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

func contentTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	}
	return ""
}
