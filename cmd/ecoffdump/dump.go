package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ecoff/internal/logger"
	"github.com/samcharles93/ecoff/internal/report"
)

func dumpCmd() *cli.Command {
	var (
		asJSON      bool
		showAll     bool
		noSections  bool
		showStrings bool
		showData    bool
		dataLimit   int
	)

	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the headers, sections and string tables of an object file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print a JSON document", Destination: &asJSON},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "show strings and section data", Destination: &showAll},
			&cli.BoolFlag{Name: "no-sections", Usage: "hide the section table", Destination: &noSections},
			&cli.BoolFlag{Name: "strings", Aliases: []string{"s"}, Usage: "show local and external strings", Destination: &showStrings},
			&cli.BoolFlag{Name: "data", Aliases: []string{"d"}, Usage: "hex dump section payloads", Destination: &showData},
			&cli.IntFlag{Name: "data-limit", Usage: "max bytes of hex per section (0 = all)", Value: 256, Destination: &dataLimit},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			if showAll {
				showStrings, showData = true, true
			}

			log := logger.FromContext(ctx)
			f, err := decoder().Open(path)
			if err != nil {
				log.Debug("decode failed", "path", path, "error", err)
				return cli.Exit(path+": "+report.Describe(err), 1)
			}

			w := stdout(cmd)
			if asJSON {
				doc := report.Build(path, f, report.Options{Strings: showStrings, Data: showData})
				return report.WriteJSON(w, doc)
			}
			return report.WriteText(w, path, f, report.TextOptions{
				Sections:  !noSections,
				Symbolic:  true,
				Strings:   showStrings,
				Data:      showData,
				DataLimit: dataLimit,
			})
		},
	}
}
