package host

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	if err := os.WriteFile(page, []byte("<p>one</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 4)
	stop, err := Watch(page, 20*time.Millisecond, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(page, []byte("<p>two</p>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestRelevant(t *testing.T) {
	page := "/site/page.html"
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: page, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/site/style.css", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/site/notes.txt", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: page, Op: fsnotify.Chmod}, false},
	}
	for _, c := range cases {
		if got := relevant(c.ev, page); got != c.want {
			t.Errorf("relevant(%v) = %v, want %v", c.ev, got, c.want)
		}
	}
}
