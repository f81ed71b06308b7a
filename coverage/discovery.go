package coverage

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/moby/patternmatcher"

	"github.com/grovetools/coverlay/config"
	"github.com/grovetools/coverlay/errors"
	"github.com/grovetools/coverlay/logging"
	"github.com/grovetools/coverlay/util/pathutil"
)

// Directories never worth descending into while looking for reports.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	".coverlay":    true,
}

// FindCoverageFiles locates coverage report files for a workspace. Manual
// paths from the config take precedence over pattern search entirely; with
// no manual paths the base directory is walked and file names are matched
// against the configured patterns.
func FindCoverageFiles(ctx context.Context, cfg *config.Config, workspaceRoot string) ([]string, error) {
	log := logging.NewLogger("coverage")

	if len(cfg.Coverage.ManualPaths) > 0 {
		paths := make([]string, 0, len(cfg.Coverage.ManualPaths))
		for _, manual := range cfg.Coverage.ManualPaths {
			expanded, err := pathutil.Expand(manual)
			if err != nil {
				log.WithError(err).WithField("path", manual).Warn("Skipping unexpandable manual path")
				continue
			}
			paths = append(paths, expanded)
		}
		return paths, nil
	}

	baseDir := workspaceRoot
	if cfg.Coverage.BaseDir != "" {
		baseDir = filepath.Join(workspaceRoot, cfg.Coverage.BaseDir)
	}

	matcher, err := patternmatcher.New(cfg.FileNames())
	if err != nil {
		return nil, errors.DiscoveryFailed(baseDir, err)
	}

	var found []string
	walkErr := filepath.WalkDir(baseDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree; keep searching the rest.
			log.WithError(err).WithField("path", path).Debug("Skipping unreadable path")
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if skippedDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			rel = entry.Name()
		}
		matched, err := matcher.MatchesOrParentMatches(rel)
		if err != nil {
			return err
		}
		if !matched {
			// Name patterns like "lcov.info" should match at any depth,
			// so fall back to matching the bare file name.
			matched, err = matcher.MatchesOrParentMatches(entry.Name())
			if err != nil {
				return err
			}
		}
		if matched {
			found = append(found, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.DiscoveryFailed(baseDir, walkErr)
	}

	log.WithField("count", len(found)).Debug("Coverage report discovery complete")
	return found, nil
}
