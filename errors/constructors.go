package errors

import (
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *CoverlayError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *CoverlayError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// DiscoveryFailed creates a report-file discovery failure error
func DiscoveryFailed(baseDir string, err error) *CoverlayError {
	return Wrap(err, ErrCodeDiscoveryFailed,
		fmt.Sprintf("failed to discover coverage files under %s", baseDir)).
		WithDetail("baseDir", baseDir)
}

// ReadFailed creates a report-file read failure error
func ReadFailed(path string, err error) *CoverlayError {
	return Wrap(err, ErrCodeReadFailed, fmt.Sprintf("failed to read coverage file: %s", path)).
		WithDetail("path", path)
}

// ParseFailed creates a per-file parse failure error. Parse failures are
// non-fatal: the offending file is skipped and the refresh cycle proceeds.
func ParseFailed(path string, err error) *CoverlayError {
	return Wrap(err, ErrCodeParseFailed, fmt.Sprintf("failed to parse coverage file: %s", path)).
		WithDetail("path", path)
}

// RenderFailed creates a decoration render failure error
func RenderFailed(err error) *CoverlayError {
	return Wrap(err, ErrCodeRenderFailed, "failed to render coverage decorations")
}

// EditorUnavailable creates an error for a missing or unreachable editor
func EditorUnavailable(addr string, err error) *CoverlayError {
	return Wrap(err, ErrCodeEditorUnavailable,
		fmt.Sprintf("could not attach to editor at %q", addr)).
		WithDetail("address", addr)
}

// WatchFailed creates a filesystem watch setup failure error
func WatchFailed(dir string, err error) *CoverlayError {
	return Wrap(err, ErrCodeWatchFailed, fmt.Sprintf("failed to watch directory: %s", dir)).
		WithDetail("dir", dir)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *CoverlayError {
	covErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		covErr = covErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return covErr
}
