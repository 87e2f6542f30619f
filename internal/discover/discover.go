// Package discover finds assembly snapshot files to load.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/parse"
)

// DefaultExcludes lists snapshots that are never loaded.
var DefaultExcludes = []string{
	"Microsoft.Isam.Esent.Interop.*",
	"Microsoft.SmartDevice.ConnectivityWrapper.11.*",
}

// FileEntry represents a discovered snapshot file.
type FileEntry struct {
	Path   string
	Format string
}

// Snapshots discovers snapshot files under the given roots. A root may be a
// directory, walked recursively, or a single file. Hidden entries, files with
// an unsupported extension and paths matching an exclude pattern (gitignore
// syntax, matched against the path relative to its root) are skipped, as is
// anything a .gitignore at a directory root ignores. The result is sorted by
// path and free of duplicates.
func Snapshots(roots []string, excludes []string) ([]FileEntry, error) {
	patterns := ignore.CompileIgnoreLines(excludes...)
	seen := make(map[string]struct{})
	var results []FileEntry

	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		format := parse.ForExtension(filepath.Ext(path))
		if format == "" {
			return
		}
		seen[path] = struct{}{}
		results = append(results, FileEntry{Path: path, Format: format})
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", root)
		}
		if !info.IsDir() {
			if !patterns.MatchesPath(filepath.Base(root)) {
				add(root)
			}
			continue
		}

		gi := loadGitignore(root)
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip errors
			}

			name := d.Name()
			if d.IsDir() {
				if path == root {
					return nil
				}
				if strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") {
				return nil
			}

			// Skip symlinks
			if d.Type()&os.ModeSymlink != 0 {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if patterns.MatchesPath(rel) || (gi != nil && gi.MatchesPath(rel)) {
				return nil
			}

			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", root)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
