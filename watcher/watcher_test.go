package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/coverlay/config"
)

func waitForChange(t *testing.T, changes <-chan string, timeout time.Duration) string {
	t.Helper()
	select {
	case file := <-changes:
		return file
	case <-time.After(timeout):
		t.Fatal("Timed out waiting for change notification")
		return ""
	}
}

func TestWatcherNotifiesOnReportWrite(t *testing.T) {
	root := t.TempDir()
	changes := make(chan string, 10)

	w, err := New(&config.Config{}, root, func(file string) { changes <- file })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	report := filepath.Join(root, "lcov.info")
	if err := os.WriteFile(report, []byte("SF:/a.go\nend_of_record\n"), 0644); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}

	if got := waitForChange(t, changes, 2*time.Second); got != report {
		t.Errorf("Expected notification for %s, got %s", report, got)
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	root := t.TempDir()
	changes := make(chan string, 10)

	w, err := New(&config.Config{}, root, func(file string) { changes <- file })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	select {
	case file := <-changes:
		t.Errorf("Unexpected notification for %s", file)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherManualPaths(t *testing.T) {
	root := t.TempDir()
	manual := filepath.Join(root, "custom.info")
	changes := make(chan string, 10)

	cfg := &config.Config{}
	cfg.Coverage.ManualPaths = []string{manual}

	w, err := New(cfg, root, func(file string) { changes <- file })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// A matching name that is not the manual path must be ignored.
	if err := os.WriteFile(filepath.Join(root, "lcov.info"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.WriteFile(manual, []byte("SF:/a.go\nend_of_record\n"), 0644); err != nil {
		t.Fatalf("Failed to write manual report: %v", err)
	}

	if got := waitForChange(t, changes, 2*time.Second); got != manual {
		t.Errorf("Expected notification for %s, got %s", manual, got)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	changes := make(chan string, 10)

	w, err := New(&config.Config{}, root, func(file string) { changes <- file })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	report := filepath.Join(root, "lcov.info")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(report, []byte("SF:/a.go\nend_of_record\n"), 0644); err != nil {
			t.Fatalf("Failed to write report: %v", err)
		}
	}

	waitForChange(t, changes, 2*time.Second)
	select {
	case <-changes:
		t.Error("Burst of writes should collapse into one notification")
	case <-time.After(300 * time.Millisecond):
	}
}