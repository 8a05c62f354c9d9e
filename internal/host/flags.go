// Package host holds what the pagemap commands share: common flags,
// logging and config setup, and the page session a host drives.
package host

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"pagemap/internal/config"
	"pagemap/internal/logging"
)

// Flags are accepted by every command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "width", Usage: "viewport width in pixels", Value: 1024},
		&cli.IntFlag{Name: "height", Usage: "viewport height in pixels", Value: 768},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML options file", Sources: cli.EnvVars("PAGEMAP_CONFIG")},
		&cli.StringFlag{Name: "viewport", Usage: "selector of a scrollable element to map instead of the document"},
		&cli.BoolFlag{Name: "no-scripts", Usage: "do not run the page's inline scripts"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		&cli.StringFlag{Name: "log-format", Usage: "text or json"},
		&cli.StringFlag{Name: "log-file", Usage: "write logs to a rotating file instead of stderr"},
	}
}

// Setup loads the options file named by --config and installs the logger
// described by base, then the file's log section, then the log flags. The
// returned function closes the log sink.
func Setup(cmd *cli.Command, app string, base logging.Config) (config.Config, func() error, error) {
	var cfg config.Config
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, nil, err
		}
	}
	if v := cmd.String("viewport"); v != "" {
		cfg.Viewport = v
	}

	logCfg := base.Merge(cfg.Log).Merge(logging.Config{
		Level:  cmd.String("log-level"),
		Format: cmd.String("log-format"),
		File:   cmd.String("log-file"),
	})
	if cmd.String("log-file") != "" {
		logCfg.Sink = string(logging.SinkFile)
	}
	closeLog, err := logging.Init(logCfg, app)
	if err != nil {
		return cfg, nil, fmt.Errorf("init logging: %w", err)
	}
	return cfg, closeLog, nil
}

// KeepExitErrors is a command ExitErrHandler that leaves exit codes to
// the caller of Run instead of exiting the process.
func KeepExitErrors(context.Context, *cli.Command, error) {}

// Target returns the single page argument.
func Target(cmd *cli.Command) (string, error) {
	if cmd.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("usage: %s [flags] <file|url>", cmd.Name), 2)
	}
	return cmd.Args().First(), nil
}
