package coverage

import (
	"github.com/grovetools/coverlay/util/pathutil"
)

// Parts is a hit/found counter pair.
type Parts struct {
	Hit   int `json:"hit"`
	Found int `json:"found"`
}

// Add accumulates another counter pair into p.
func (p *Parts) Add(other Parts) {
	p.Hit += other.Hit
	p.Found += other.Found
}

// Section holds the coverage statistics for one source file. Branch data is
// optional: lcov reports written without --rc branch_coverage=1 omit it.
type Section struct {
	// Title is the test name (lcov TN record), empty when absent.
	Title string `json:"title,omitempty"`
	// File is the source file path as recorded in the report, resolved
	// against the report's base directory.
	File string `json:"file"`

	Lines    Parts  `json:"lines"`
	Branches *Parts `json:"branches,omitempty"`

	// LineHits maps line number to execution count (lcov DA records). Used
	// by the renderer to decorate individual lines; nil when the report
	// carried no per-line detail.
	LineHits map[int]int `json:"line_hits,omitempty"`
}

// Cache is the authoritative mapping from normalized source file path to its
// merged Section. It is replaced wholesale on every refresh; consumers must
// treat a Cache value as immutable once they hold it.
type Cache map[string]*Section

// NewCache builds a cache from sections, merging sections that describe the
// same source file. Keys are normalized so lookups survive symlinks and
// case-insensitive filesystems.
func NewCache(sections []*Section) Cache {
	cache := make(Cache, len(sections))
	for _, section := range sections {
		key, err := pathutil.NormalizeForLookup(section.File)
		if err != nil {
			key = section.File
		}
		if existing, ok := cache[key]; ok {
			cache[key] = MergeSections(existing, section)
		} else {
			cache[key] = section
		}
	}
	return cache
}

// MergeSections combines two sections for the same source file by summing
// their counters. Branch data is kept when either side has it; per-line hit
// counts are summed line by line.
func MergeSections(a, b *Section) *Section {
	merged := &Section{
		Title: a.Title,
		File:  a.File,
		Lines: a.Lines,
	}
	if merged.Title == "" {
		merged.Title = b.Title
	}
	merged.Lines.Add(b.Lines)

	if a.Branches != nil || b.Branches != nil {
		branches := &Parts{}
		if a.Branches != nil {
			branches.Add(*a.Branches)
		}
		if b.Branches != nil {
			branches.Add(*b.Branches)
		}
		merged.Branches = branches
	}

	if a.LineHits != nil || b.LineHits != nil {
		hits := make(map[int]int, len(a.LineHits)+len(b.LineHits))
		for line, count := range a.LineHits {
			hits[line] += count
		}
		for line, count := range b.LineHits {
			hits[line] += count
		}
		merged.LineHits = hits
	}

	return merged
}
