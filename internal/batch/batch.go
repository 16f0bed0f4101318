// Package batch decodes many object files concurrently, one file per task.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/ecoff/internal/logger"
	"github.com/samcharles93/ecoff/pkg/ecoff"
)

// Config controls a batch run.
type Config struct {
	// Workers is the number of concurrent decodes; <= 0 means runtime.NumCPU().
	Workers int
	Decoder ecoff.Decoder
	Logger  logger.Logger
}

// Result is the outcome of decoding one path. Exactly one of File and Err
// is set.
type Result struct {
	Path     string
	File     *ecoff.File
	Err      error
	Duration time.Duration
}

// Run decodes every path and returns results in input order. Cancelling ctx
// stops new decodes from starting; those results carry ctx.Err().
func Run(ctx context.Context, paths []string, cfg Config) []Result {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.FromContext(ctx)
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		results[i].Path = path
		if gctx.Err() != nil {
			results[i].Err = gctx.Err()
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			f, err := cfg.Decoder.Open(path)
			results[i].Duration = time.Since(start)
			if err != nil {
				results[i].Err = fmt.Errorf("%s: %w", path, err)
				log.Warn("decode failed", "path", path, "error", err)
				return nil
			}
			results[i].File = f
			log.Debug("decoded", "path", path, "sections", len(f.Sections), "elapsed", results[i].Duration)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// objectExts are the suffixes Expand picks up when walking a directory.
var objectExts = []string{".o", ".obj", ".out", ".coff", ".ecoff"}

// Expand turns a mix of files and directories into a sorted list of files.
// Directories are walked recursively and only files with an object-file
// suffix are kept; explicitly named files are always kept.
func Expand(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			out = append(out, filepath.Clean(arg))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if slices.Contains(objectExts, strings.ToLower(filepath.Ext(path))) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no object files found")
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
