package host

import (
	"fmt"
	"log/slog"

	"pagemap/internal/config"
	"pagemap/pkg/js"
	"pagemap/pkg/page"
	"pagemap/pkg/pagemap"
	"pagemap/pkg/resource"
)

// Session is one loaded page with the host's map and the page's scripts.
// Reloading a page means closing its session and opening a new one.
type Session struct {
	Doc     *page.Document
	Map     *pagemap.Map
	Scripts *js.Engine
}

// SessionOptions describes how to open a page.
type SessionOptions struct {
	Width, Height float64

	// Canvas receives the host's minimap. Nil creates no host map, which
	// leaves minimaps to the page's scripts.
	Canvas pagemap.Canvas
	Config config.Config

	Scripts bool
}

// Open loads target, attaches the map, runs the page's scripts and
// finally dispatches load, so every map sees the loaded page.
func Open(target string, o SessionOptions) (*Session, error) {
	src, err := resource.Load(target)
	if err != nil {
		return nil, err
	}
	s := &Session{Doc: page.New(src, o.Width, o.Height)}

	if o.Canvas != nil {
		opts, err := o.Config.Options(s.Doc)
		if err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
		s.Map = pagemap.New(s.Doc, o.Canvas, opts)
	}
	if o.Scripts && len(src.Scripts) > 0 {
		s.Scripts = js.New(s.Doc)
		if err := s.Scripts.Execute(); err != nil {
			slog.Warn("page script failed", "target", target, "err", err)
		}
	}
	s.Doc.Load()
	slog.Info("page opened",
		"target", target,
		"document", s.Doc.Layout().DocumentSize,
		"scripts", len(src.Scripts))
	return s, nil
}

// Close releases the map and everything the scripts created.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.Map != nil {
		s.Map.Close()
	}
	if s.Scripts != nil {
		s.Scripts.Close()
	}
}
