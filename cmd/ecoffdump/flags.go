package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ecoff/internal/logger"
	"github.com/samcharles93/ecoff/pkg/ecoff"
)

var (
	logLevel   string
	logFormat  string
	debug      bool
	configFile string
	strict     bool

	// cfg is the loaded config file; subcommands read their defaults from it.
	cfg Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Value:       configPath(),
			Destination: &configFile,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "reject unknown magic numbers",
			Destination: &strict,
		},
	}
}

// setup loads the config file and installs the logger in ctx.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	loaded, err := LoadConfig(configFile)
	if err != nil {
		return ctx, err
	}
	cfg = loaded
	applyGlobalConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.Setup(stderr(cmd), level, logFormat)
	if err != nil {
		return ctx, cli.Exit(err.Error(), 2)
	}
	return logger.WithContext(ctx, log), nil
}

func decoder() ecoff.Decoder {
	if strict {
		return ecoff.Decoder{Strictness: ecoff.Strict}
	}
	return ecoff.Decoder{Strictness: ecoff.Lenient}
}

// fileArg returns the single FILE argument of cmd.
func fileArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s: expected exactly one FILE argument, got %d", cmd.Name, cmd.Args().Len())
	}
	return cmd.Args().First(), nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
