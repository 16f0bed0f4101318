package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ecoff/internal/report"
	"github.com/samcharles93/ecoff/internal/version"
)

func versionCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			w := stdout(cmd)
			if asJSON {
				return report.WriteJSON(w, info)
			}
			_, _ = fmt.Fprintf(w, "ecoffdump  %s\n", info.String())
			if info.Commit != "" {
				_, _ = fmt.Fprintf(w, "commit:     %s\n", info.Commit)
			}
			if info.BuildTime != "" {
				_, _ = fmt.Fprintf(w, "build time: %s\n", info.BuildTime)
			}
			_, _ = fmt.Fprintf(w, "go:         %s\n", info.GoVersion)
			return nil
		},
	}
}
