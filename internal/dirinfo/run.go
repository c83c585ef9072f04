package dirinfo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/charmbracelet/log"
)

var (
	// ErrNotDirectory is returned when the root path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrRootUnreadable is returned when the root directory cannot be listed.
	ErrRootUnreadable = errors.New("root directory unreadable")
)

// discard is used when no logger is configured.
var discard = log.New(io.Discard) //nolint:gochecknoglobals // Shared no-op logger

// parentDir returns the directory part of path without cleaning it, so that it
// matches the key the walk registered for the parent ("./sub/a" -> "./sub").
func parentDir(path string) string {
	i := strings.LastIndexByte(path, filepath.Separator)

	switch {
	case i < 0:
		return "."
	case i == 0:
		return path[:1]
	default:
		return path[:i]
	}
}

// walker holds the state the walk callback needs.
type walker struct {
	ctx       context.Context //nolint:containedctx // Callback has no ctx parameter
	root      string
	collector *collector
	log       *log.Logger
}

// visit is the fastwalk callback. It is called once before a directory is
// read and a second time, with err set, if reading it fails. Errors below the
// root never stop the walk.
//
//nolint:varnamelen // d is standard for DirEntry
func (w *walker) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if path == w.root {
			return fmt.Errorf("%w: %w", ErrRootUnreadable, err)
		}

		if w.collector.has(path) {
			w.log.Debug("skipping unreadable directory", "path", path, "err", err)
			w.collector.drop(path)
		} else {
			w.log.Debug("skipping unreadable entry", "path", path, "err", err)
			w.collector.addError()
		}

		// The listing already failed, so there is nothing left to skip, and
		// fastwalk passes the return value of this second call straight up.
		return nil
	}

	select {
	case <-w.ctx.Done():
		return w.ctx.Err()
	default:
	}

	// the root was already checked to be a directory
	if d.IsDir() || path == w.root {
		if !w.collector.enter(path) {
			w.log.Debug("skipping directory below a dropped directory", "path", path)

			return filepath.SkipDir
		}

		return nil
	}

	if !d.Type().IsRegular() {
		w.log.Debug("ignoring non-regular file", "path", path, "type", d.Type().String())

		return nil
	}

	fileInfo, err := d.Info()
	if err != nil {
		w.log.Debug("skipping unreadable file", "path", path, "err", err)
		w.collector.addError()

		return nil //nolint:nilerr // Intentionally skip errors during walk
	}

	if !w.collector.addFile(parentDir(path), fileInfo.Size()) {
		w.log.Debug("skipping file outside a registered directory", "path", path)
		w.collector.addError()
	}

	return nil
}

// Run walks the directory tree at opt.Path and returns the aggregated statistics.
//
// Every directory is registered before any of its files are counted. Files and
// directories that cannot be read are skipped and logged at debug level; the
// walk only fails if the root itself cannot be accessed or listed.
//
// The walk operation can be cancelled via ctx.
func Run(ctx context.Context, opt Options) (*Result, error) {
	log := opt.Logger
	if log == nil {
		log = discard
	}

	if opt.Path == "" {
		opt.Path = "."
	}

	root := filepath.Clean(opt.Path)

	// validate path exists and is accessible
	if statInfo, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", root, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q: %w", root, ErrNotDirectory)
	}

	collector := newCollector(root)
	w := &walker{ctx: ctx, root: root, collector: collector, log: log}

	// A single worker keeps the walk sequential; symlinks are never followed.
	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: 1,
	}

	start := time.Now()

	walkErr := fastwalk.Walk(conf, root, w.visit)
	if walkErr != nil {
		return nil, walkErr
	}

	result := collector.finalize(root)
	if _, ok := result.Dir(root); !ok {
		return nil, fmt.Errorf("path %q: %w", root, ErrRootUnreadable)
	}

	result.Elapsed = time.Since(start)

	log.Debug("walk finished",
		"root", root,
		"files", result.Summary.FileCount,
		"bytes", result.Summary.TotalSize,
		"folders", result.Folders(),
		"skipped", result.Skipped,
		"elapsed", result.Elapsed,
	)

	return result, nil
}
