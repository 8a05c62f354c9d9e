package main

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"pagemap/internal/config"
	"pagemap/pkg/geom"
)

// newTestTerm opens content on an 80x25 simulation screen: 64 page
// columns (512px), 16 map columns and 24 content rows (384px).
func newTestTerm(t *testing.T, content string) (*term, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 25)

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	tm, err := newTerm(screen, path, config.Config{}, true, 16)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(tm.close)
	return tm, screen
}

// 512x4800 content on a 16x48 footprint draws at scale 0.01.
const tallPage = `<html><body style="margin: 0"><div style="height: 4800px"></div></body></html>`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestTermLayout(t *testing.T) {
	tm, _ := newTestTerm(t, tallPage)
	if got := tm.session.Doc.Window().InnerSize(); got != (geom.Size{W: 512, H: 384}) {
		t.Errorf("expected a 512x384 viewport, got %v", got)
	}
	if got := tm.canvas.Footprint(); got != (geom.Size{W: 16, H: 48}) {
		t.Errorf("expected a 16x48 footprint, got %v", got)
	}
	if !near(tm.session.Map.Scale(), 0.01) {
		t.Errorf("expected scale 0.01, got %v", tm.session.Map.Scale())
	}
}

func TestTermMapDrag(t *testing.T) {
	tm, _ := newTestTerm(t, tallPage)
	win := tm.session.Doc.Window()

	tm.handle(tcell.NewEventMouse(64, 0, tcell.Button1, tcell.ModNone))
	if !tm.session.Map.Dragging() {
		t.Fatal("expected a press on the map to start a drag")
	}
	tm.handle(tcell.NewEventMouse(64, 10, tcell.Button1, tcell.ModNone))
	if got := win.ScrollY(); !near(got, 2000) {
		t.Errorf("expected scrollY 2000, got %v", got)
	}
	tm.handle(tcell.NewEventMouse(64, 12, tcell.ButtonNone, tcell.ModNone))
	if tm.session.Map.Dragging() {
		t.Error("expected the release to end the drag")
	}
	if got := win.ScrollY(); !near(got, 2400) {
		t.Errorf("expected the release to scroll to 2400, got %v", got)
	}

	// Moves without a button held do nothing.
	tm.handle(tcell.NewEventMouse(64, 20, tcell.ButtonNone, tcell.ModNone))
	if got := win.ScrollY(); !near(got, 2400) {
		t.Errorf("expected scrollY to stay at 2400, got %v", got)
	}
}

func TestTermPressOnPageDoesNotDrag(t *testing.T) {
	tm, _ := newTestTerm(t, tallPage)
	tm.handle(tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModNone))
	tm.handle(tcell.NewEventMouse(10, 15, tcell.Button1, tcell.ModNone))
	tm.handle(tcell.NewEventMouse(10, 15, tcell.ButtonNone, tcell.ModNone))
	if tm.session.Map.Dragging() {
		t.Error("a press on the page should not start a minimap drag")
	}
	if got := tm.session.Doc.Window().ScrollY(); got != 0 {
		t.Errorf("expected no scroll, got %v", got)
	}
}

func TestTermKeys(t *testing.T) {
	tm, _ := newTestTerm(t, tallPage)
	win := tm.session.Doc.Window()

	steps := []struct {
		ev   *tcell.EventKey
		want float64
	}{
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), 16},
		{tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), 16 + 368},
		{tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone), 368},
		{tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone), 4800 - 384},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), 4800 - 384},
		{tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone), 0},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), 0},
	}
	for i, s := range steps {
		if !tm.handle(s.ev) {
			t.Fatalf("step %d: unexpected quit", i)
		}
		if got := win.ScrollY(); got != s.want {
			t.Errorf("step %d: expected scrollY %v, got %v", i, s.want, got)
		}
	}

	if tm.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("expected q to quit")
	}
	if tm.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("expected Escape to quit")
	}
}

func TestTermWheel(t *testing.T) {
	tm, _ := newTestTerm(t, tallPage)
	tm.handle(tcell.NewEventMouse(10, 10, tcell.WheelDown, tcell.ModNone))
	if got := tm.session.Doc.Window().ScrollY(); got != 48 {
		t.Errorf("expected scrollY 48, got %v", got)
	}
}

func TestTermResize(t *testing.T) {
	tm, screen := newTestTerm(t, tallPage)
	old := tm.session.Map

	screen.SetSize(100, 31)
	tm.handle(tcell.NewEventResize(100, 31))
	if got := tm.session.Doc.Window().InnerSize(); got != (geom.Size{W: 672, H: 480}) {
		t.Errorf("expected a 672x480 viewport, got %v", got)
	}
	if got := tm.canvas.Footprint(); got != (geom.Size{W: 16, H: 60}) {
		t.Errorf("expected a 16x60 footprint, got %v", got)
	}
	if tm.session.Map == old {
		t.Error("expected a new map for the new canvas")
	}
}

func TestTermDraw(t *testing.T) {
	tm, screen := newTestTerm(t, `<html><body style="margin: 0"><div>hello</div>`+
		`<div style="height: 4800px"></div></body></html>`)
	tm.draw()

	for i, want := range "hello" {
		if got, _, _, _ := screen.GetContent(i, 0); got != want {
			t.Errorf("cell %d: expected %q, got %q", i, want, got)
		}
	}
	if got, _, _, _ := screen.GetContent(64, 0); got != '▀' {
		t.Errorf("expected the minimap in the right columns, got %q", got)
	}
	if got, _, _, _ := screen.GetContent(1, 24); got == ' ' {
		t.Error("expected a status line on the last row")
	}
}

func TestTermNeedsTarget(t *testing.T) {
	err := newCommand().Run(context.Background(), []string{"pagemapterm"})
	var exit cli.ExitCoder
	if !errors.As(err, &exit) || exit.ExitCode() != 2 {
		t.Fatalf("expected a usage error with exit code 2, got %v", err)
	}
}
