// Package pipeline runs one tag file generation end to end: discover
// snapshots, load and link them, select and order assemblies, aggregate the
// public types and write the tag file.
package pipeline

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phobologic/doxytags/internal/aggregate"
	"github.com/phobologic/doxytags/internal/config"
	"github.com/phobologic/doxytags/internal/discover"
	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/logger"
	"github.com/phobologic/doxytags/internal/model"
	"github.com/phobologic/doxytags/internal/parse"
	"github.com/phobologic/doxytags/internal/progress"
	"github.com/phobologic/doxytags/internal/ranking"
	"github.com/phobologic/doxytags/internal/tagfile"
)

// Result summarizes a completed run.
type Result struct {
	RunID      string
	Snapshots  int // discovered snapshot files
	Assemblies int // assemblies documented, after selection
	Namespaces int
	Types      int
	Output     string // empty when written to stdout
}

// Options carries the collaborators of a run.
type Options struct {
	Log      *zap.SugaredLogger
	Stdout   io.Writer         // receives the document when no output path is set
	Progress progress.Reporter // may be nil
}

// Run performs one generation. Unreadable snapshots and types are skipped;
// discovery, ordering and output failures abort the run, and the output file
// is only replaced after a complete write.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	if cfg == nil {
		return nil, errors.InvalidArgumentf("nil config")
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	res := &Result{RunID: uuid.New().String(), Output: cfg.Output}
	log = log.With(logger.FieldRunID, res.RunID)
	start := time.Now()

	entries, err := discover.Snapshots(cfg.Inputs, cfg.Exclude)
	if err != nil {
		return nil, errors.WithHint(errors.Mark(err, errors.ErrInvalidArgument),
			"inputs must be existing snapshot files or directories")
	}
	res.Snapshots = len(entries)
	if len(entries) == 0 {
		return nil, noInput("no assembly snapshots found")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	loader := &parse.Loader{Log: log}
	loaded := loader.Load(paths)
	if len(loaded) == 0 {
		return nil, noInput("no assembly snapshot could be loaded")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selected := ranking.Select(loaded, cfg.Filter())
	if len(selected) == 0 {
		log.Warnw("no assembly matched the selection", "company", cfg.Select.Company, "system_only", cfg.Select.SystemOnly)
	}
	if err := cfg.Policy().Sort(selected); err != nil {
		return nil, err
	}
	res.Assemblies = len(selected)

	cat := aggregate.Aggregate(selected, log)
	res.Namespaces = len(cat.Namespaces)
	res.Types = cat.TypeCount()

	if err := write(cfg, cat, opts); err != nil {
		return nil, err
	}

	log.Infow("tag file written",
		logger.FieldOutput, outputName(cfg.Output),
		logger.FieldAssembly, res.Assemblies,
		logger.FieldNamespace, res.Namespaces,
		logger.FieldCount, res.Types,
		logger.FieldDuration, time.Since(start).Milliseconds())
	return res, nil
}

func noInput(msg string) error {
	return errors.WithHint(errors.Mark(errors.New(msg), errors.ErrNoInput),
		"point doxytags at .json or .yaml assembly snapshots, or check the exclude patterns")
}

func outputName(path string) string {
	if path == "" {
		return "<stdout>"
	}
	return path
}

func write(cfg *config.Config, cat *model.Catalog, opts Options) error {
	if cfg.Output == "" {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return tagfile.Encode(out, cat, cfg.View(), opts.Progress)
	}
	return WriteFileAtomic(cfg.Output, func(w io.Writer) error {
		return tagfile.Encode(w, cat, cfg.View(), opts.Progress)
	})
}

// WriteFileAtomic writes path through a temporary file in the same directory
// and renames it into place once fill succeeds. On failure path is left
// untouched.
func WriteFileAtomic(path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.OutputSink(err, "creating output directory")
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.OutputSink(err, "creating temporary output")
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	bw := bufio.NewWriter(tmp)
	if err := fill(bw); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.OutputSink(err, "writing output")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.OutputSink(err, "closing output")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return errors.OutputSink(err, "setting output permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.OutputSink(err, "replacing output")
	}
	return nil
}
