package host

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange, from its own goroutine, after the page file or a
// stylesheet or script next to it changes. Bursts of events within
// debounce collapse into one call. The directory is watched rather than
// the file so editors that replace the file on save are followed.
func Watch(page string, debounce time.Duration, onChange func()) (stop func() error, err error) {
	abs, err := filepath.Abs(page)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", page, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", page, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", page, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		debounceEvents(w, abs, debounce, onChange)
	}()
	slog.Debug("watching page", "path", abs, "debounce", debounce)

	return func() error {
		err := w.Close()
		<-done
		return err
	}, nil
}

func debounceEvents(w *fsnotify.Watcher, page string, debounce time.Duration, onChange func()) {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				timer.Stop()
				return
			}
			if relevant(ev, page) {
				timer.Reset(debounce)
			}
		case <-timer.C:
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				timer.Stop()
				return
			}
			slog.Warn("watch error", "path", page, "err", err)
		}
	}
}

// relevant reports whether ev touches the page or a file it may load.
func relevant(ev fsnotify.Event, page string) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	if ev.Name == page {
		return true
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".css", ".html", ".htm":
		return true
	}
	return false
}
