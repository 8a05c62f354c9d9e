// Command pagemapterm browses a page in the terminal with a minimap in the
// rightmost columns. Drag the minimap with the mouse or scroll with the
// arrow and page keys; q quits.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"pagemap/internal/host"
	"pagemap/internal/logging"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pagemapterm: %v\n", err)
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	flags := append(host.Flags(),
		&cli.IntFlag{Name: "map-cols", Usage: "minimap width in terminal columns", Value: 16},
		&cli.DurationFlag{Name: "tick", Usage: "how often page timers are driven", Value: 50 * time.Millisecond},
	)
	return &cli.Command{
		Name:      "pagemapterm",
		Usage:     "browse a page with a minimap in the terminal",
		ArgsUsage: "<file|url>",
		Flags:     flags,
		Action:    run,

		ExitErrHandler: host.KeepExitErrors,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	// The screen owns stderr; log only where asked to.
	cfg, closeLog, err := host.Setup(cmd, "pagemapterm", logging.Config{Sink: string(logging.SinkNone)})
	if err != nil {
		return err
	}
	defer closeLog()

	target, err := host.Target(cmd)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	t, err := newTerm(screen, target, cfg, !cmd.Bool("no-scripts"), int(cmd.Int("map-cols")))
	if err != nil {
		return err
	}
	defer t.close()
	return loop(ctx, screen, t, cmd.Duration("tick"))
}

// loop reads terminal events on their own goroutine and handles them,
// together with timer ticks, on this one.
func loop(ctx context.Context, screen tcell.Screen, t *term, tick time.Duration) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	t.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !t.handle(ev) {
				return nil
			}
			t.draw()
		case now := <-ticker.C:
			if t.tick(now) {
				t.draw()
			}
		}
	}
}
