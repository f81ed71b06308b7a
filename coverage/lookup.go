package coverage

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/coverlay/util/pathutil"
)

// SectionsForFile returns every cached section that plausibly describes the
// given editor file, in deterministic order. An exact key match wins; when
// reports recorded shorter relative paths, sections whose paths share a
// trailing component suffix with the editor file are returned instead.
func SectionsForFile(cache Cache, file string) []*Section {
	if len(cache) == 0 || file == "" {
		return nil
	}

	normalized, err := pathutil.NormalizeForLookup(file)
	if err != nil {
		normalized = file
	}

	if section, ok := cache[normalized]; ok {
		return []*Section{section}
	}

	var matches []*Section
	keys := make([]string, 0, len(cache))
	for key := range cache {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if pathsShareSuffix(key, normalized) {
			matches = append(matches, cache[key])
		}
	}
	return matches
}

// MergeAll folds a list of sections for one source file into a single merged
// section. Multiple report runs covering the same file contribute all of
// their counters.
func MergeAll(sections []*Section) *Section {
	if len(sections) == 0 {
		return nil
	}
	merged := sections[0]
	for _, section := range sections[1:] {
		merged = MergeSections(merged, section)
	}
	return merged
}

// pathsShareSuffix reports whether two paths plausibly name the same source
// file: their file names match, ignoring any leading directories the two
// sides disagree on. Reports recorded under different roots (CI checkouts,
// per-run build dirs) still match the editor's absolute path this way.
func pathsShareSuffix(a, b string) bool {
	partsA := splitPath(a)
	partsB := splitPath(b)
	if len(partsA) == 0 || len(partsB) == 0 {
		return false
	}
	return partsA[len(partsA)-1] == partsB[len(partsB)-1]
}

func splitPath(p string) []string {
	cleaned := filepath.ToSlash(filepath.Clean(p))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return nil
	}
	return strings.Split(cleaned, "/")
}
