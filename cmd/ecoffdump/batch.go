package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ecoff/internal/batch"
	"github.com/samcharles93/ecoff/internal/logger"
	"github.com/samcharles93/ecoff/internal/report"
)

// batchRecord is one line of `batch --json` output.
type batchRecord struct {
	Path       string           `json:"path"`
	OK         bool             `json:"ok"`
	Summary    string           `json:"summary,omitempty"`
	Error      *report.ErrorDoc `json:"error,omitempty"`
	DurationMS float64          `json:"duration_ms"`
}

func batchCmd() *cli.Command {
	var (
		workers int
		asJSON  bool
	)

	return &cli.Command{
		Name:      "batch",
		Usage:     "Decode many object files concurrently and summarise each",
		ArgsUsage: "FILE|DIR...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "workers",
				Aliases:     []string{"j"},
				Usage:       "concurrent decodes (0 = number of CPUs)",
				Destination: &workers,
			},
			&cli.BoolFlag{Name: "json", Usage: "print one JSON record per line", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyBatchConfig(cmd, cfg, &workers)
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("batch: expected at least one FILE or DIR")
			}
			paths, err := batch.Expand(cmd.Args().Slice())
			if err != nil {
				return err
			}

			log := logger.FromContext(ctx)
			log.Debug("batch start", "files", len(paths), "workers", workers, "strict", strict)
			results := batch.Run(ctx, paths, batch.Config{
				Workers: workers,
				Decoder: decoder(),
				Logger:  log,
			})

			w := stdout(cmd)
			for _, r := range results {
				if err := writeBatchResult(w, r, asJSON); err != nil {
					return err
				}
			}

			if failed := batch.Failed(results); failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d files failed", failed, len(results)), 1)
			}
			return nil
		},
	}
}

func writeBatchResult(w io.Writer, r batch.Result, asJSON bool) error {
	if asJSON {
		rec := batchRecord{
			Path:       r.Path,
			OK:         r.Err == nil,
			DurationMS: float64(r.Duration.Microseconds()) / 1000,
		}
		if r.Err != nil {
			doc := report.DescribeError(r.Err)
			rec.Error = &doc
		} else {
			rec.Summary = report.Summary(r.File)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	if r.Err != nil {
		_, err := fmt.Fprintf(w, "FAIL %s: %s\n", r.Path, report.Describe(unwrapPath(r.Err)))
		return err
	}
	_, err := fmt.Fprintf(w, "ok   %s: %s\n", r.Path, report.Summary(r.File))
	return err
}

// unwrapPath drops the "path: " prefix added by batch.Run.
func unwrapPath(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
