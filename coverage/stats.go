package coverage

import (
	"github.com/grovetools/coverlay/logging"
)

// Summary carries the four percentages shown by the status indicator: the
// active file's line/branch coverage and the workspace-wide totals. Any of
// the file percentages may be undefined; totals are always defined (an empty
// workspace reads 0, never NaN).
type Summary struct {
	FileLines     Percent
	FileBranches  Percent
	TotalLines    Percent
	TotalBranches Percent
}

// Summarize computes the display summary for a cache and the active editor
// file (empty when no editor is focused). It never panics past its boundary:
// malformed sections degrade to an undefined file percentage.
func Summarize(cache Cache, editorFile string) (summary Summary) {
	defer func() {
		if r := recover(); r != nil {
			logging.NewLogger("coverage").WithField("panic", r).
				Error("Coverage aggregation failed, degrading to no coverage")
			summary = EmptySummary()
		}
	}()

	summary = EmptySummary()

	var lineTotals, branchTotals Parts
	for _, section := range cache {
		lineTotals.Add(section.Lines)
		// A section without branch data contributes nothing to the
		// workspace branch totals.
		if section.Branches != nil {
			branchTotals.Add(*section.Branches)
		}
	}
	summary.TotalLines = RatioOrZero(lineTotals.Hit, lineTotals.Found)
	summary.TotalBranches = RatioOrZero(branchTotals.Hit, branchTotals.Found)

	if editorFile == "" {
		return summary
	}

	sections := SectionsForFile(cache, editorFile)
	merged := MergeAll(sections)
	if merged == nil {
		return summary
	}

	summary.FileLines = Ratio(merged.Lines.Hit, merged.Lines.Found)

	// A file without branch data reads 0% rather than "unknown", so lcov
	// reports written without branch tracking still render all four numbers.
	branches := Parts{Hit: 0, Found: 1}
	if merged.Branches != nil && merged.Branches.Found > 0 {
		branches = *merged.Branches
	}
	summary.FileBranches = Ratio(branches.Hit, branches.Found)

	return summary
}

// EmptySummary is the "no coverage" summary: undefined file percentages and
// zero totals.
func EmptySummary() Summary {
	return Summary{
		TotalLines:    PercentValue(0),
		TotalBranches: PercentValue(0),
	}
}
