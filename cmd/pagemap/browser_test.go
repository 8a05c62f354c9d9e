package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"pagemap/internal/config"
	"pagemap/pkg/geom"
)

func newTestBrowser(t *testing.T, content string) *browser {
	t.Helper()
	test.NewTempApp(t)
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	b := newBrowser(path, config.Config{}, true, geom.Size{W: 800, H: 600}, geom.Size{W: 100, H: 200})
	if err := b.open(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(b.close)
	return b
}

const tallPage = `<html><body style="margin: 0"><div style="height: 4000px"></div></body></html>`

func TestBrowserMapDragScrollsPage(t *testing.T) {
	b := newTestBrowser(t, tallPage)
	win := b.session.Doc.Window()

	// Scale is 0.05: the overlay is 40x30 at the top of a 40x200 surface.
	b.mapDown(fyne.NewPos(20, 15), 0)
	if !b.session.Map.Dragging() {
		t.Fatal("expected a drag to start")
	}
	b.mapWindowEvent("mousemove", fyne.NewPos(20, 65), 0)
	if got := win.ScrollY(); got != 1000 {
		t.Errorf("expected scrollY 1000, got %v", got)
	}
	b.mapWindowEvent("mouseup", fyne.NewPos(20, 75), 0)
	if b.session.Map.Dragging() {
		t.Error("expected the drag to end")
	}
	if got := win.ScrollY(); got != 1200 {
		t.Errorf("expected the release to scroll to 1200, got %v", got)
	}
	if b.minimap.img.Image == nil || b.page.img.Image != b.pageImg {
		t.Error("expected both images to be shown")
	}
}

func TestBrowserWheelAndResize(t *testing.T) {
	b := newTestBrowser(t, tallPage)
	b.wheel(0, -120)
	if got := b.session.Doc.Window().ScrollY(); got != 120 {
		t.Errorf("expected scrollY 120, got %v", got)
	}

	b.resizePage(fyne.NewSize(400, 300))
	if got := b.session.Doc.Window().InnerSize(); got != (geom.Size{W: 400, H: 300}) {
		t.Errorf("expected the window resized, got %v", got)
	}
	if b.pageImg.Bounds().Dx() != 400 {
		t.Errorf("expected the page image to follow, got %v", b.pageImg.Bounds())
	}
}

func TestBrowserReloadKeepsOldPageOnError(t *testing.T) {
	b := newTestBrowser(t, tallPage)
	old := b.session
	b.target = filepath.Join(t.TempDir(), "gone.html")
	b.reload()
	if b.session != old {
		t.Error("a failed reload should keep the previous session")
	}
}

func TestBrowserTickDrivesTimers(t *testing.T) {
	b := newTestBrowser(t, `<html><body style="margin: 0">
<div style="height: 4000px"></div>
<canvas id="m" style="position: fixed; top: 0; left: 0; width: 50px; height: 100px"></canvas>
<script>pagemap(document.getElementById("m"), {interval: 10});</script>
</body></html>`)
	win := b.session.Doc.Window()
	if win.Timers() != 1 {
		t.Fatalf("expected the script's timer, got %d", win.Timers())
	}
	b.tick(time.Now().Add(time.Second))
}
