package dirinfo

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/btree"
)

// btreeDegree is the branching factor of the per-directory index.
const btreeDegree = 32

// DirStats accumulates the file count and byte size of a scope.
type DirStats struct {
	// FileCount is the number of regular files.
	FileCount int64 `json:"file_count"`
	// TotalSize is the cumulative size in bytes.
	TotalSize int64 `json:"total_size"`
}

// Merge adds other into s.
func (s *DirStats) Merge(other DirStats) {
	s.FileCount += other.FileCount
	s.TotalSize += other.TotalSize
}

// DirEntry is a directory path together with the statistics of its direct files.
type DirEntry struct {
	// Path is the directory path as produced by the walk.
	Path string `json:"path"`
	DirStats
}

func lessEntry(a, b *DirEntry) bool {
	return a.Path < b.Path
}

// Result holds the aggregated statistics of a directory walk.
// It is read-only once returned by Run.
type Result struct {
	// Root is the directory the walk started from.
	Root string
	// Summary holds the totals across the whole tree.
	Summary DirStats
	// Skipped is the number of files or directories that could not be read.
	Skipped int64
	// Elapsed is the total time taken for the walk.
	Elapsed time.Duration

	dirs *btree.BTreeG[*DirEntry]
}

// Len returns the number of directory entries, root included.
func (r *Result) Len() int {
	if r.dirs == nil {
		return 0
	}

	return r.dirs.Len()
}

// Folders returns the number of directories below the root.
func (r *Result) Folders() int {
	if r.Len() == 0 {
		return 0
	}

	return r.Len() - 1
}

// Dir returns the statistics recorded for the directory at path.
func (r *Result) Dir(path string) (DirStats, bool) {
	if r.dirs == nil {
		return DirStats{}, false
	}

	entry, ok := r.dirs.Get(&DirEntry{Path: path})
	if !ok {
		return DirStats{}, false
	}

	return entry.DirStats, true
}

// Dirs returns a copy of all directory entries in ascending path order.
func (r *Result) Dirs() []DirEntry {
	dirs := make([]DirEntry, 0, r.Len())

	r.Ascend(func(entry DirEntry) bool {
		dirs = append(dirs, entry)

		return true
	})

	return dirs
}

// Ascend calls fn for every directory entry in ascending path order
// until fn returns false.
func (r *Result) Ascend(fn func(entry DirEntry) bool) {
	if r.dirs == nil {
		return
	}

	r.dirs.Ascend(func(entry *DirEntry) bool {
		return fn(*entry)
	})
}

// MarshalJSON encodes the result with its directory entries in path order.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Root        string     `json:"root"`
		Summary     DirStats   `json:"summary"`
		Folders     int        `json:"folders"`
		Skipped     int64      `json:"skipped"`
		Elapsed     string     `json:"elapsed"`
		Directories []DirEntry `json:"directories"`
	}{
		Root:        r.Root,
		Summary:     r.Summary,
		Folders:     r.Folders(),
		Skipped:     r.Skipped,
		Elapsed:     r.Elapsed.String(),
		Directories: r.Dirs(),
	})
}

// Options configures a directory walk.
type Options struct {
	// Path is the directory to analyze.
	Path string
	// Logger receives debug output about skipped entries. Nil discards it.
	Logger *log.Logger
}

// collector is the accumulator for a single walk.
type collector struct {
	mu      sync.Mutex
	root    string
	summary DirStats
	dirs    *btree.BTreeG[*DirEntry]
	skipped int64
}

// newCollector creates an empty collector for a walk starting at root.
func newCollector(root string) *collector {
	return &collector{
		root: root,
		dirs: btree.NewG[*DirEntry](btreeDegree, lessEntry),
	}
}

// enter registers a zero entry for the directory at path unless one exists.
// Apart from the root, a directory is only registered below a registered
// parent; it reports false otherwise.
func (c *collector) enter(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.dirs.Get(&DirEntry{Path: path}); ok {
		return true
	}

	if path != c.root {
		if _, ok := c.dirs.Get(&DirEntry{Path: parentDir(path)}); !ok {
			return false
		}
	}

	c.dirs.ReplaceOrInsert(&DirEntry{Path: path})

	return true
}

// addFile merges a single file of the given size into the summary and into
// the entry of its parent directory. It reports false if the parent was never
// registered, in which case nothing is counted.
func (c *collector) addFile(parent string, size int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.dirs.Get(&DirEntry{Path: parent})
	if !ok {
		return false
	}

	file := DirStats{FileCount: 1, TotalSize: size}

	c.summary.Merge(file)
	entry.Merge(file)

	return true
}

// drop removes the entry for a directory that turned out to be unreadable,
// together with any descendants already registered, and withdraws whatever
// they had contributed to the summary.
func (c *collector) drop(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.skipped++

	prefix := path
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	doomed := []*DirEntry{}

	if entry, ok := c.dirs.Get(&DirEntry{Path: path}); ok {
		doomed = append(doomed, entry)
	}

	c.dirs.AscendGreaterOrEqual(&DirEntry{Path: prefix}, func(entry *DirEntry) bool {
		if !strings.HasPrefix(entry.Path, prefix) {
			return false
		}

		doomed = append(doomed, entry)

		return true
	})

	for _, entry := range doomed {
		c.dirs.Delete(entry)
		c.summary.FileCount -= entry.FileCount
		c.summary.TotalSize -= entry.TotalSize
	}
}

// addError increments the skip counter.
func (c *collector) addError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skipped++
}

// has reports whether path has a registered entry.
func (c *collector) has(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.dirs.Get(&DirEntry{Path: path})

	return ok
}

// finalize hands the collected data over as a Result.
func (c *collector) finalize(root string) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	return &Result{
		Root:    root,
		Summary: c.summary,
		Skipped: c.skipped,
		dirs:    c.dirs,
	}
}
