package coverage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/grovetools/coverlay/config"
)

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("SF:/a.go\nLF:1\nLH:1\nend_of_record\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return path
}

func TestFindCoverageFilesByName(t *testing.T) {
	root := t.TempDir()
	want := []string{
		touch(t, root, "lcov.info"),
		touch(t, root, "pkg/sub/coverage.info"),
	}
	touch(t, root, "pkg/readme.md")
	touch(t, root, "node_modules/dep/lcov.info")
	touch(t, root, ".git/lcov.info")

	found, err := FindCoverageFiles(context.Background(), &config.Config{}, root)
	if err != nil {
		t.Fatalf("Discovery failed: %v", err)
	}

	sort.Strings(found)
	sort.Strings(want)
	if len(found) != len(want) {
		t.Fatalf("Expected %d files, got %d: %v", len(want), len(found), found)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Errorf("Expected %s, got %s", want[i], found[i])
		}
	}
}

func TestFindCoverageFilesBaseDir(t *testing.T) {
	root := t.TempDir()
	want := touch(t, root, "build/coverage/lcov.info")
	touch(t, root, "lcov.info")

	cfg := &config.Config{}
	cfg.Coverage.BaseDir = "build"

	found, err := FindCoverageFiles(context.Background(), cfg, root)
	if err != nil {
		t.Fatalf("Discovery failed: %v", err)
	}
	if len(found) != 1 || found[0] != want {
		t.Errorf("Expected only the base-dir report %s, got %v", want, found)
	}
}

func TestFindCoverageFilesManualPaths(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "lcov.info")

	cfg := &config.Config{}
	cfg.Coverage.ManualPaths = []string{filepath.Join(root, "custom", "report.info")}

	found, err := FindCoverageFiles(context.Background(), cfg, root)
	if err != nil {
		t.Fatalf("Discovery failed: %v", err)
	}
	if len(found) != 1 || found[0] != cfg.Coverage.ManualPaths[0] {
		t.Errorf("Manual paths must bypass pattern search entirely, got %v", found)
	}
}

func TestFindCoverageFilesCancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "lcov.info")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := FindCoverageFiles(ctx, &config.Config{}, root); err == nil {
		t.Error("Expected error from cancelled context")
	}
}
