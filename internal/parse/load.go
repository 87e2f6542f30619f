package parse

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/logger"
	"github.com/phobologic/doxytags/internal/model"
)

// ReadSnapshot reads and decodes one snapshot file. Failures are marked
// errors.ErrLoadFailure.
func ReadSnapshot(path string) (*Snapshot, error) {
	format := ForExtension(filepath.Ext(path))
	if format == "" {
		return nil, errors.LoadFailuref(errors.New("unsupported extension"), "reading %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.LoadFailuref(err, "reading %s", path)
	}
	snap, err := Decode(format, data)
	if err != nil {
		return nil, errors.LoadFailuref(err, "reading %s", path)
	}
	return snap, nil
}

// LoadAssembly reads one snapshot and links it on its own. References to
// types in other snapshots become external placeholders.
func LoadAssembly(path string) (*model.Assembly, error) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return NewLinker().Link([]Unit{{Path: path, Snapshot: snap}})[0], nil
}

// DeclaredTypes returns the types of asm, or nothing when its type list could
// not be read.
func DeclaredTypes(asm *model.Assembly) []*model.Type {
	if asm == nil || asm.TypesErr != nil {
		return nil
	}
	return asm.Types
}

// Loader reads snapshots concurrently and links them together.
type Loader struct {
	Log     *zap.SugaredLogger
	Workers int // 0 means GOMAXPROCS
}

// Load reads every path, skipping (and logging) the ones that fail, and
// links the rest as one set. The result follows the order of paths.
func (l *Loader) Load(paths []string) []*model.Assembly {
	log := l.Log
	if log == nil {
		log = logger.Nop()
	}
	if len(paths) == 0 {
		return nil
	}

	type result struct {
		index int
		snap  *Snapshot
	}

	numWorkers := l.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	work := make(chan int, len(paths))
	results := make(chan result, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				snap, err := ReadSnapshot(paths[idx])
				if err != nil {
					log.Warnw("skipping assembly snapshot", logger.FieldFile, paths[idx], logger.FieldError, err)
					continue
				}
				results <- result{index: idx, snap: snap}
			}
		}()
	}

	for i := range paths {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	indexed := make([]*Snapshot, len(paths))
	for r := range results {
		indexed[r.index] = r.snap
	}

	var units []Unit
	for i, snap := range indexed {
		if snap != nil {
			units = append(units, Unit{Path: paths[i], Snapshot: snap})
		}
	}

	asms := NewLinker().Link(units)
	for _, a := range asms {
		log.Debugw("loaded assembly snapshot", logger.FieldAssembly, a.Name, logger.FieldCount, len(a.Types))
	}
	return asms
}
