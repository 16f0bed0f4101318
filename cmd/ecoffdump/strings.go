package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ecoff/internal/report"
	"github.com/samcharles93/ecoff/pkg/ecoff"
)

func stringsCmd() *cli.Command {
	var (
		table  string
		asJSON bool
	)

	return &cli.Command{
		Name:      "strings",
		Usage:     "List the local and external string tables with offsets",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "table",
				Aliases:     []string{"t"},
				Usage:       "which table to list (local, external, all)",
				Value:       "all",
				Destination: &table,
			},
			&cli.BoolFlag{Name: "json", Usage: "print JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			var local, external bool
			switch table {
			case "local":
				local = true
			case "external":
				external = true
			case "all":
				local, external = true, true
			default:
				return fmt.Errorf("strings: unknown table %q (want local, external or all)", table)
			}

			f, err := decoder().Open(path)
			if err != nil {
				return cli.Exit(path+": "+report.Describe(err), 1)
			}

			w := stdout(cmd)
			if asJSON {
				out := map[string][]report.StringDoc{}
				if local {
					out["local"] = report.Strings(f.LocalStrings)
				}
				if external {
					out["external"] = report.Strings(f.ExternalStrings)
				}
				return report.WriteJSON(w, out)
			}

			tables := []struct {
				title string
				on    bool
				t     ecoff.StringTable
			}{
				{"Local Strings", local, f.LocalStrings},
				{"External Strings", external, f.ExternalStrings},
			}
			for _, tt := range tables {
				if !tt.on {
					continue
				}
				if err := report.WriteStrings(w, tt.title, tt.t); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
