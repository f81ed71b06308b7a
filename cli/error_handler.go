package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/coverlay/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Create a coverlay.yml in the project root.\n")
		return err

	case errors.ErrCodeEditorUnavailable:
		if covErr, ok := err.(*errors.CoverlayError); ok {
			fmt.Fprintf(os.Stderr, "❌ Cannot reach the editor at '%v'\n", covErr.Details["address"])
			fmt.Fprintf(os.Stderr, "Start Neovim with --listen or run coverlay from inside :terminal.\n")
		}
		return err

	case errors.ErrCodeDiscoveryFailed:
		if covErr, ok := err.(*errors.CoverlayError); ok {
			fmt.Fprintf(os.Stderr, "❌ No coverage reports found under '%v'\n", covErr.Details["base_dir"])
			fmt.Fprintf(os.Stderr, "Run your test suite with coverage output, or set coverage.paths in coverlay.yml\n")
		}
		return err

	case errors.ErrCodeParseFailed:
		fmt.Fprintf(os.Stderr, "❌ Failed to parse a coverage report: %v\n", err)
		fmt.Fprintf(os.Stderr, "Coverlay expects LCOV tracefiles (lcov.info).\n")
		return err

	case errors.ErrCodeCommandFailed:
		if covErr, ok := err.(*errors.CoverlayError); ok {
			fmt.Fprintf(os.Stderr, "❌ Coverage command '%v' failed\n", covErr.Details["command"])
			fmt.Fprintf(os.Stderr, "Check the run.command setting in coverlay.yml\n")
		}
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		if h.Verbose {
			if covErr, ok := err.(*errors.CoverlayError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", covErr.ToJSON())
			}
		}
		return err
	}
}
