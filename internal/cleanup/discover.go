package cleanup

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"cleansweep/internal/database"
	"cleansweep/internal/metrics"
)

// hiddenPattern matches any name containing a dot, not only dotfiles.
const hiddenPattern = "*.*"

const readBatch = 64

// DiscoverPaths lists the immediate children of the base directory in
// filesystem order. The returned sequence reads the directory lazily and can
// be ranged over once; later ranges yield nothing.
//
// When verbose, the listing is read up front, shown on the console and the
// sequence replays it, also only once.
func (c *Cleaner) DiscoverPaths(directoryOnly, excludeHidden bool) (iter.Seq2[string, error], error) {
	dir := c.settings.BaseDir
	seq := c.listDir(dir, directoryOnly, excludeHidden)

	if !c.console.Verbose() {
		return seq, nil
	}

	var paths []string
	for p, err := range seq {
		if err != nil {
			metrics.RecordError()
			return nil, fmt.Errorf("discover paths in %s: %w", dir, err)
		}
		paths = append(paths, p)
	}

	dirOnlyMsg := ""
	if directoryOnly {
		dirOnlyMsg = "Displaying directories only"
	}
	c.console.Separate(
		fmt.Sprintf("Path(s) discovered at %s", dir),
		dirOnlyMsg,
		strings.Join(paths, "\n"),
	)
	metrics.RecordListing(len(paths))
	c.record(database.Event{
		Kind:      database.KindDiscovery,
		Path:      dir,
		Validated: true,
		Message:   fmt.Sprintf("%d path(s), directories only=%t, exclude hidden=%t", len(paths), directoryOnly, excludeHidden),
	})

	replayed := false
	return func(yield func(string, error) bool) {
		if replayed {
			return
		}
		replayed = true
		for _, p := range paths {
			if !yield(p, nil) {
				return
			}
		}
	}, nil
}

func (c *Cleaner) listDir(dir string, directoryOnly, excludeHidden bool) iter.Seq2[string, error] {
	consumed := false

	return func(yield func(string, error) bool) {
		if consumed {
			return
		}
		consumed = true

		f, err := os.Open(dir)
		if err != nil {
			yield("", err)
			return
		}
		defer f.Close()

		for {
			entries, err := f.ReadDir(readBatch)
			for _, entry := range entries {
				path := filepath.Join(dir, entry.Name())
				if directoryOnly && !isDir(path, entry) {
					continue
				}
				if excludeHidden && isHidden(entry.Name()) {
					continue
				}
				metrics.RecordDiscovered(1)
				if !yield(path, nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
		}
	}
}

// isDir follows symlinks, so a link to a directory counts as one.
func isDir(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isHidden(name string) bool {
	matched, _ := filepath.Match(hiddenPattern, name)
	return matched
}
