package coverage

import (
	"testing"
)

func TestSectionsForFileExactMatch(t *testing.T) {
	section := &Section{File: "/work/a.go", Lines: Parts{Hit: 1, Found: 1}}
	cache := Cache{"/work/a.go": section}

	matches := SectionsForFile(cache, "/work/a.go")
	if len(matches) != 1 || matches[0] != section {
		t.Fatalf("Expected exact match, got %v", matches)
	}
}

func TestSectionsForFileSuffixMatch(t *testing.T) {
	cache := Cache{
		"/ci/checkout/src/a.go": {File: "/ci/checkout/src/a.go"},
		"/ci/checkout/src/b.go": {File: "/ci/checkout/src/b.go"},
	}

	matches := SectionsForFile(cache, "/home/dev/proj/src/a.go")
	if len(matches) != 1 {
		t.Fatalf("Expected 1 suffix match, got %d", len(matches))
	}
	if matches[0].File != "/ci/checkout/src/a.go" {
		t.Errorf("Matched wrong section: %s", matches[0].File)
	}
}

func TestSectionsForFileDeterministicOrder(t *testing.T) {
	cache := Cache{
		"/run2/a.go": {File: "/run2/a.go"},
		"/run1/a.go": {File: "/run1/a.go"},
	}

	for i := 0; i < 10; i++ {
		matches := SectionsForFile(cache, "/edit/a.go")
		if len(matches) != 2 {
			t.Fatalf("Expected 2 matches, got %d", len(matches))
		}
		if matches[0].File != "/run1/a.go" || matches[1].File != "/run2/a.go" {
			t.Fatalf("Match order must be deterministic, got %s, %s", matches[0].File, matches[1].File)
		}
	}
}

func TestSectionsForFileEmptyInputs(t *testing.T) {
	if got := SectionsForFile(nil, "/work/a.go"); got != nil {
		t.Errorf("Nil cache should yield no matches, got %v", got)
	}
	cache := Cache{"/work/a.go": {File: "/work/a.go"}}
	if got := SectionsForFile(cache, ""); got != nil {
		t.Errorf("Empty editor file should yield no matches, got %v", got)
	}
}

func TestMergeAll(t *testing.T) {
	if MergeAll(nil) != nil {
		t.Error("Merging no sections should yield nil")
	}

	merged := MergeAll([]*Section{
		{File: "/a.go", Lines: Parts{Hit: 1, Found: 2}},
		{File: "/a.go", Lines: Parts{Hit: 1, Found: 2}},
		{File: "/a.go", Lines: Parts{Hit: 2, Found: 2}, Branches: &Parts{Hit: 1, Found: 1}},
	})
	if merged.Lines.Hit != 4 || merged.Lines.Found != 6 {
		t.Errorf("Unexpected merged lines: %+v", merged.Lines)
	}
	if merged.Branches == nil || merged.Branches.Hit != 1 {
		t.Errorf("Unexpected merged branches: %+v", merged.Branches)
	}
}
