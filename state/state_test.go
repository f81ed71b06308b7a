package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateOperations(t *testing.T) {
	tmpDir := t.TempDir()

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	defer os.Chdir(oldWd)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}

	t.Run("Load empty state", func(t *testing.T) {
		s, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if s == nil {
			t.Fatal("Load() returned nil state")
		}
		if len(s) != 0 {
			t.Errorf("Load() returned non-empty state: %v", s)
		}
	})

	t.Run("Set and Get string value", func(t *testing.T) {
		if err := Set(KeySummary, "55,70%/55,70%"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, err := GetString(KeySummary)
		if err != nil {
			t.Fatalf("GetString() error = %v", err)
		}
		if got != "55,70%/55,70%" {
			t.Errorf("GetString() = %v, want 55,70%%/55,70%%", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		got, ok, err := Get("non.existent")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok {
			t.Error("Get() returned ok=true for non-existent key")
		}
		if got != nil {
			t.Errorf("Get() = %v, want nil", got)
		}
	})

	t.Run("Delete key", func(t *testing.T) {
		if err := Set(KeyWarn, true); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := Delete(KeyWarn); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		_, ok, err := Get(KeyWarn)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok {
			t.Error("Get() returned ok=true after Delete()")
		}
	})

	t.Run("State file location", func(t *testing.T) {
		if err := Set("test.location", "value"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		statePath := filepath.Join(tmpDir, ".coverlay", "state.yml")
		if _, err := os.Stat(statePath); os.IsNotExist(err) {
			t.Errorf("state file not found at %s", statePath)
		}
	})
}
