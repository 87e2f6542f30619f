// Package watch re-runs generation whenever the watched snapshots change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/logger"
	"github.com/phobologic/doxytags/internal/parse"
)

// DefaultDebounce collapses bursts of file events into one run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher runs Run once, then again after every settled burst of snapshot
// changes under Inputs. Runs never overlap.
type Watcher struct {
	Inputs   []string
	Ignore   string // written by Run itself; changes to it are not reacted to
	Debounce time.Duration
	Log      *zap.SugaredLogger
	Run      func(ctx context.Context) error
}

// Watch blocks until ctx is done. Failed runs are logged and watching goes on.
func (w *Watcher) Watch(ctx context.Context) error {
	if w.Run == nil {
		return errors.InvalidArgumentf("watch: nil run function")
	}
	log := w.Log
	if log == nil {
		log = logger.Nop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer fsw.Close()

	for _, in := range w.Inputs {
		if err := addTree(fsw, in); err != nil {
			return errors.Wrapf(err, "watching %s", in)
		}
	}

	w.rerun(ctx, log)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !hidden(event.Name) {
					if err := addTree(fsw, event.Name); err != nil {
						log.Warnw("cannot watch new directory", logger.FieldFile, event.Name, logger.FieldError, err)
					}
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			log.Debugw("snapshot changed", logger.FieldFile, event.Name, "op", event.Op.String())
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			w.rerun(ctx, log)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) rerun(ctx context.Context, log *zap.SugaredLogger) {
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Errorw("generation failed", logger.FieldError, err)
	}
}

// relevant reports whether event touches a snapshot file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.Ignore != "" && filepath.Clean(event.Name) == filepath.Clean(w.Ignore) {
		return false
	}
	if hidden(event.Name) {
		return false
	}
	return parse.ForExtension(filepath.Ext(event.Name)) != ""
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// addTree watches root and every non-hidden directory below it. A file root
// is watched through its parent directory.
func addTree(fsw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fsw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}
