package coverage

import (
	"testing"
)

func cacheOf(sections ...*Section) Cache {
	return NewCache(sections)
}

func TestSummarizeEmptyCache(t *testing.T) {
	summary := Summarize(Cache{}, "/work/a.go")

	if summary.FileLines.Defined() {
		t.Error("File line percentage should be undefined for an empty cache")
	}
	if !summary.TotalLines.Defined() || summary.TotalLines.Value() != 0 {
		t.Errorf("Aggregate line percentage over an empty cache must be exactly 0, got %+v", summary.TotalLines)
	}
	if !summary.TotalBranches.Defined() || summary.TotalBranches.Value() != 0 {
		t.Errorf("Aggregate branch percentage over an empty cache must be exactly 0, got %+v", summary.TotalBranches)
	}
}

func TestSummarizeNoActiveEditor(t *testing.T) {
	cache := cacheOf(&Section{File: "/work/a.go", Lines: Parts{Hit: 1, Found: 2}})

	summary := Summarize(cache, "")
	if summary.FileLines.Defined() || summary.FileBranches.Defined() {
		t.Error("No active editor should yield undefined file percentages")
	}
	if summary.TotalLines.Value() != 50 {
		t.Errorf("Expected total line 50%%, got %d", summary.TotalLines.Value())
	}
}

func TestSummarizeNoMatchingSection(t *testing.T) {
	cache := cacheOf(&Section{File: "/work/a.go", Lines: Parts{Hit: 1, Found: 2}})

	summary := Summarize(cache, "/elsewhere/b.go")
	if summary.FileLines.Defined() {
		t.Error("Editor file with no matching section should yield undefined file line percentage")
	}
}

func TestSummarizeZeroFoundLines(t *testing.T) {
	cache := cacheOf(&Section{File: "/work/empty.go", Lines: Parts{Hit: 0, Found: 0}})

	summary := Summarize(cache, "/work/empty.go")
	if summary.FileLines.Defined() {
		t.Error("Zero found lines must read as undefined, never a divide-by-zero result")
	}
	if summary.TotalLines.Value() != 0 {
		t.Errorf("Aggregate with zero total found must be 0, got %d", summary.TotalLines.Value())
	}
}

func TestSummarizeMissingBranchData(t *testing.T) {
	cache := cacheOf(&Section{File: "/work/a.go", Lines: Parts{Hit: 8, Found: 10}})

	summary := Summarize(cache, "/work/a.go")
	if !summary.FileBranches.Defined() || summary.FileBranches.Value() != 0 {
		t.Errorf("File without branch data should read 0%% branch coverage, got %+v", summary.FileBranches)
	}
	if summary.TotalBranches.Value() != 0 {
		t.Errorf("Missing branch data contributes nothing to aggregate, expected 0, got %d", summary.TotalBranches.Value())
	}
}

func TestSummarizeFull(t *testing.T) {
	cache := cacheOf(
		&Section{File: "/work/a.go", Lines: Parts{Hit: 5, Found: 10}, Branches: &Parts{Hit: 7, Found: 10}},
		&Section{File: "/work/b.go", Lines: Parts{Hit: 6, Found: 10}, Branches: &Parts{Hit: 7, Found: 10}},
	)

	summary := Summarize(cache, "/work/a.go")
	if summary.FileLines.Value() != 50 {
		t.Errorf("Expected file line 50%%, got %d", summary.FileLines.Value())
	}
	if summary.FileBranches.Value() != 70 {
		t.Errorf("Expected file branch 70%%, got %d", summary.FileBranches.Value())
	}
	if summary.TotalLines.Value() != 55 {
		t.Errorf("Expected total line 55%%, got %d", summary.TotalLines.Value())
	}
	if summary.TotalBranches.Value() != 70 {
		t.Errorf("Expected total branch 70%%, got %d", summary.TotalBranches.Value())
	}
}

func TestSummarizeMergesMultipleRuns(t *testing.T) {
	// Same source file reported by two report runs with different relative
	// prefixes: both should contribute to the file percentage.
	cache := Cache{
		"/run1/src/a.go": {File: "/run1/src/a.go", Lines: Parts{Hit: 1, Found: 4}},
		"/run2/src/a.go": {File: "/run2/src/a.go", Lines: Parts{Hit: 3, Found: 4}},
	}

	summary := Summarize(cache, "/edit/src/a.go")
	if summary.FileLines.Value() != 50 {
		t.Errorf("Expected merged file line 50%% (4/8), got %d", summary.FileLines.Value())
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(2, 3); !got.Defined() || got.Value() != 67 {
		t.Errorf("Expected Ratio(2,3) = 67, got %+v", got)
	}
	if Ratio(5, 0).Defined() {
		t.Error("Ratio with zero denominator must be undefined")
	}
	if got := RatioOrZero(0, 0); !got.Defined() || got.Value() != 0 {
		t.Errorf("RatioOrZero(0,0) must be exactly 0, got %+v", got)
	}
}
