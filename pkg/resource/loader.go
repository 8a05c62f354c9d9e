package resource

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"pagemap/pkg/html"
)

// Load reads the page at target, a file path or an http(s) URL, and
// parses it. Linked stylesheets are fetched relative to the page;
// a stylesheet that cannot be loaded is skipped.
func Load(target string) (*html.Document, error) {
	base := target
	if !IsNetworkURL(target) {
		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", target, err)
		}
		target, base = abs, filepath.Dir(abs)
	}
	return LoadWith(NewFetcher(base), target)
}

// LoadWith reads and parses target through f.
func LoadWith(f *DefaultFetcher, target string) (*html.Document, error) {
	body, _, err := f.Fetch(target)
	if err != nil {
		return nil, fmt.Errorf("loading page: %w", err)
	}
	doc, err := html.ParseWithFetcher(bytes.NewReader(body), f.FetchCSS)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", target, err)
	}
	slog.Debug("page loaded",
		"target", target,
		"bytes", len(body),
		"stylesheets", len(doc.Stylesheets),
		"scripts", len(doc.Scripts))
	return doc, nil
}
