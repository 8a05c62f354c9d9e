// Command pagemapshow lays out a page, scrolls it, and writes its minimap
// (and optionally the page itself) to PNG files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"pagemap/internal/host"
	"pagemap/internal/logging"
	"pagemap/pkg/render"
	"pagemap/pkg/surface"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pagemapshow: %v\n", err)
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	flags := append(host.Flags(),
		&cli.FloatFlag{Name: "scroll-x", Usage: "horizontal scroll position of the window"},
		&cli.FloatFlag{Name: "scroll-y", Usage: "vertical scroll position of the window"},
		&cli.IntFlag{Name: "map-width", Usage: "minimap footprint width", Value: 200},
		&cli.IntFlag{Name: "map-height", Usage: "minimap footprint height", Value: 600},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "minimap PNG path", Value: "pagemap.png"},
		&cli.StringFlag{Name: "page-output", Usage: "also paint the visible page to this PNG path"},
	)
	return &cli.Command{
		Name:      "pagemapshow",
		Usage:     "render a page's minimap to PNG",
		ArgsUsage: "<file|url>",
		Flags:     flags,
		Action:    run,

		ExitErrHandler: host.KeepExitErrors,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, closeLog, err := host.Setup(cmd, "pagemapshow", logging.Config{})
	if err != nil {
		return err
	}
	defer closeLog()

	target, err := host.Target(cmd)
	if err != nil {
		return err
	}

	raster := surface.NewRaster(cmd.Int("map-width"), cmd.Int("map-height"))
	s, err := host.Open(target, host.SessionOptions{
		Width:   float64(cmd.Int("width")),
		Height:  float64(cmd.Int("height")),
		Canvas:  raster,
		Config:  cfg,
		Scripts: !cmd.Bool("no-scripts"),
	})
	if err != nil {
		return err
	}
	defer s.Close()

	s.Doc.Window().ScrollTo(cmd.Float("scroll-x"), cmd.Float("scroll-y"))

	out := cmd.String("output")
	if err := raster.SavePNG(out); err != nil {
		return fmt.Errorf("writing minimap: %w", err)
	}
	w, h := raster.Size()
	slog.Info("minimap written", "path", out, "width", w, "height", h, "scale", s.Map.Scale())

	if path := cmd.String("page-output"); path != "" {
		r := render.NewRenderer(cmd.Int("width"), cmd.Int("height"))
		if s.Scripts != nil {
			r.SetCanvasSource(s.Scripts.CanvasImage)
		}
		r.Render(s.Doc)
		if err := r.SavePNG(path); err != nil {
			return fmt.Errorf("writing page: %w", err)
		}
		slog.Info("page written", "path", path)
	}
	return nil
}
