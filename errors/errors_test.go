package errors

import (
	"fmt"
	"testing"
)

func TestCoverlayError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeDiscoveryFailed, "discovery failed")
	if err.Code != ErrCodeDiscoveryFailed {
		t.Errorf("expected code %s, got %s", ErrCodeDiscoveryFailed, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeReadFailed, "read failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeReadFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeDiscoveryFailed) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("baseDir", "/tmp/project").WithDetail("patterns", 2)
	if detailed.Details["baseDir"] != "/tmp/project" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := ParseFailed("lcov.info", fmt.Errorf("bad record"))
	if err.Code != ErrCodeParseFailed {
		t.Errorf("expected code %s, got %s", ErrCodeParseFailed, err.Code)
	}
	if err.Details["path"] != "lcov.info" {
		t.Error("ParseFailed should include path detail")
	}

	err = EditorUnavailable("/tmp/nvim.sock", fmt.Errorf("connection refused"))
	if err.Code != ErrCodeEditorUnavailable {
		t.Errorf("expected code %s, got %s", ErrCodeEditorUnavailable, err.Code)
	}
	if err.Details["address"] != "/tmp/nvim.sock" {
		t.Error("EditorUnavailable should include address detail")
	}

	err = WatchFailed("/tmp/project", fmt.Errorf("too many open files"))
	if !Is(err, ErrCodeWatchFailed) {
		t.Error("WatchFailed should carry the WATCH_FAILED code")
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should return empty code")
	}

	err := fmt.Errorf("wrapping: %w", New(ErrCodeRenderFailed, "render failed"))
	if GetCode(err) != ErrCodeRenderFailed {
		t.Error("GetCode should unwrap to find the code")
	}
}
