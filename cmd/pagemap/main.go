// Command pagemap opens a page in a window with its minimap beside it.
// Dragging the minimap scrolls the page; editing the page file reloads it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/urfave/cli/v3"

	"pagemap/internal/host"
	"pagemap/internal/logging"
	"pagemap/pkg/geom"
	"pagemap/pkg/resource"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pagemap: %v\n", err)
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	flags := append(host.Flags(),
		&cli.IntFlag{Name: "map-width", Usage: "minimap footprint width", Value: 160},
		&cli.DurationFlag{Name: "tick", Usage: "how often page timers are driven", Value: 50 * time.Millisecond},
		&cli.BoolFlag{Name: "watch", Usage: "reload when the page file changes", Value: true},
	)
	return &cli.Command{
		Name:      "pagemap",
		Usage:     "browse a page with a minimap",
		ArgsUsage: "<file|url>",
		Flags:     flags,
		Action:    run,

		ExitErrHandler: host.KeepExitErrors,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, closeLog, err := host.Setup(cmd, "pagemap", logging.Config{})
	if err != nil {
		return err
	}
	defer closeLog()

	target, err := host.Target(cmd)
	if err != nil {
		return err
	}

	width, height := float64(cmd.Int("width")), float64(cmd.Int("height"))
	mapWidth := float64(cmd.Int("map-width"))

	a := app.New()
	w := a.NewWindow("pagemap - " + target)
	b := newBrowser(target, cfg, !cmd.Bool("no-scripts"),
		geom.Size{W: width, H: height},
		geom.Size{W: mapWidth, H: height})
	if err := b.open(); err != nil {
		return err
	}
	defer b.close()

	w.SetContent(b.content())
	w.Resize(fyne.NewSize(float32(width+mapWidth), float32(height)))

	if cmd.Bool("watch") && !resource.IsNetworkURL(target) {
		stop, err := host.Watch(target, 100*time.Millisecond, func() { fyne.Do(b.reload) })
		if err != nil {
			slog.Warn("not watching page", "target", target, "err", err)
		} else {
			defer stop()
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(cmd.Duration("tick"))
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				fyne.Do(func() { b.tick(now) })
			case <-done:
				return
			}
		}
	}()

	w.ShowAndRun()
	return nil
}
