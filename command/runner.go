package command

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/coverlay/config"
	"github.com/grovetools/coverlay/errors"
	"github.com/grovetools/coverlay/logging"
)

const (
	// DefaultTimeout is the default command execution timeout.
	DefaultTimeout = 2 * time.Minute

	// MaxTimeout is the maximum allowed timeout.
	MaxTimeout = 10 * time.Minute
)

// Runner executes the configured coverage command (run.command in
// coverlay.yml), the thing that regenerates report files before a refresh.
type Runner struct {
	executor Executor
	command  string
	timeout  time.Duration
	log      *logrus.Entry
}

// NewRunner builds a runner from config.
func NewRunner(cfg *config.Config) *Runner {
	return NewRunnerWithExecutor(cfg, &RealExecutor{})
}

// NewRunnerWithExecutor builds a runner with a custom Executor.
func NewRunnerWithExecutor(cfg *config.Config, exec Executor) *Runner {
	timeout := DefaultTimeout
	if cfg.Run.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Run.TimeoutSeconds) * time.Second
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	return &Runner{
		executor: exec,
		command:  cfg.Run.Command,
		timeout:  timeout,
		log:      logging.NewLogger("run"),
	}
}

// Run executes the coverage command in dir, streaming its output to the
// current process. Returns an error when no command is configured, the
// command fails, or the timeout elapses.
func (r *Runner) Run(ctx context.Context, dir string) error {
	if r.command == "" {
		return errors.New(errors.ErrCodeConfigInvalid,
			"no run.command configured: set it in coverlay.yml")
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.log.WithFields(logrus.Fields{"command": r.command, "timeout": r.timeout.String()}).
		Info("Running coverage command")

	// The configured command is a user-authored shell line; hand it to the
	// shell rather than re-implementing word splitting.
	cmd := r.executor.CommandContext(runCtx, "sh", "-c", r.command)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return errors.CommandFailed(r.command, runCtx.Err())
		}
		return errors.CommandFailed(r.command, err)
	}
	return nil
}
