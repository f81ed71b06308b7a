package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/coverlay/config"
	"github.com/grovetools/coverlay/errors"
	"github.com/grovetools/coverlay/logging"
	"github.com/grovetools/coverlay/util/pathutil"
)

var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	".coverlay":    true,
}

// ReportWatcher notifies on create/change/delete of coverage report files.
// With manual paths configured it watches exactly those files; otherwise it
// watches the workspace tree and filters events against the configured name
// patterns. fsnotify does not watch recursively, so every directory under
// the base dir is registered, and directories created later are added as
// their create events arrive.
type ReportWatcher struct {
	watcher    *fsnotify.Watcher
	matcher    *patternmatcher.PatternMatcher
	manual     map[string]bool
	onChange   func(file string)
	debounce   time.Duration
	lastChange time.Time
	mu         sync.Mutex
	logger     *logrus.Entry
}

// New builds a watcher for the workspace. onChange is invoked (debounced)
// with the path of the report file that changed.
func New(cfg *config.Config, workspaceRoot string, onChange func(file string)) (*ReportWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WatchFailed(workspaceRoot, err)
	}

	w := &ReportWatcher{
		watcher:  fsw,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		logger:   logging.NewLogger("watcher"),
	}

	if len(cfg.Coverage.ManualPaths) > 0 {
		w.manual = make(map[string]bool, len(cfg.Coverage.ManualPaths))
		dirs := make(map[string]bool)
		for _, manual := range cfg.Coverage.ManualPaths {
			expanded, err := pathutil.Expand(manual)
			if err != nil {
				w.logger.WithError(err).WithField("path", manual).Warn("Skipping unexpandable manual path")
				continue
			}
			w.manual[expanded] = true
			dirs[filepath.Dir(expanded)] = true
		}
		for dir := range dirs {
			if err := fsw.Add(dir); err != nil {
				w.logger.WithError(err).WithField("dir", dir).Warn("Failed to watch manual path directory")
			}
		}
		return w, nil
	}

	matcher, err := patternmatcher.New(cfg.FileNames())
	if err != nil {
		fsw.Close()
		return nil, errors.WatchFailed(workspaceRoot, err)
	}
	w.matcher = matcher

	baseDir := workspaceRoot
	if cfg.Coverage.BaseDir != "" {
		baseDir = filepath.Join(workspaceRoot, cfg.Coverage.BaseDir)
	}
	if err := w.addTree(baseDir); err != nil {
		fsw.Close()
		return nil, errors.WatchFailed(baseDir, err)
	}

	return w, nil
}

// Start consumes filesystem events until the context is cancelled. It
// blocks; run it on its own goroutine.
func (w *ReportWatcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("Watcher error")
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the watcher and releases its OS resources.
func (w *ReportWatcher) Close() error {
	return w.watcher.Close()
}

func (w *ReportWatcher) handleEvent(event fsnotify.Event) {
	w.logger.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).
		Debug("Filesystem event")

	// Newly created directories must be registered to keep recursive
	// coverage of the tree; fsnotify only watches what it was told about.
	if w.matcher != nil && event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !skippedDirs[filepath.Base(event.Name)] {
				if err := w.addTree(event.Name); err != nil {
					w.logger.WithError(err).WithField("dir", event.Name).Warn("Failed to watch new directory")
				}
			}
			return
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if !w.matches(event.Name) {
		return
	}

	w.mu.Lock()
	elapsed := time.Since(w.lastChange)
	if elapsed < w.debounce {
		w.mu.Unlock()
		w.logger.WithField("file", filepath.Base(event.Name)).Debug("Debounced report change")
		return
	}
	w.lastChange = time.Now()
	w.mu.Unlock()

	w.logger.WithField("file", filepath.Base(event.Name)).Info("Coverage report changed")
	w.onChange(event.Name)
}

func (w *ReportWatcher) matches(path string) bool {
	if w.manual != nil {
		return w.manual[path]
	}
	matched, err := w.matcher.MatchesOrParentMatches(filepath.Base(path))
	if err != nil {
		return false
	}
	return matched
}

func (w *ReportWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			w.logger.WithError(err).WithField("path", path).Debug("Skipping unreadable path")
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if skippedDirs[entry.Name()] && path != root {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
