package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grovetools/coverlay/cli"
	"github.com/grovetools/coverlay/command"
	"github.com/grovetools/coverlay/coverage"
	"github.com/grovetools/coverlay/tui/theme"
)

// NewRunCmd creates the `run` command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured coverage command and print the new totals",
		Long: `Executes run.command from coverlay.yml in the workspace root. The command is
expected to regenerate the coverage reports; an active 'coverlay watch'
session picks the new reports up automatically.

Examples:
  # Regenerate reports and print totals
  coverlay run

  # Regenerate only, skip the summary
  coverlay run --quiet
`,
		RunE: runRunE,
	}

	cmd.Flags().BoolP("quiet", "q", false, "Skip the coverage summary after the run")

	return cmd
}

func runRunE(cmd *cobra.Command, args []string) error {
	handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return handler.Handle(err)
	}

	root, err := os.Getwd()
	if err != nil {
		return err
	}

	runner := command.NewRunner(cfg)
	if err := runner.Run(cmd.Context(), root); err != nil {
		return handler.Handle(err)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		return nil
	}

	_, cache, err := buildCache(cmd.Context(), cfg, root)
	if err != nil {
		return handler.Handle(err)
	}
	summary := coverage.Summarize(cache, "")

	t := theme.DefaultTheme
	fmt.Printf("\n%s Lines %s, branches %s\n",
		t.Info.Render("☂"),
		renderPercent(t, summary.TotalLines, cfg.LineThreshold()),
		renderPercent(t, summary.TotalBranches, cfg.BranchThreshold()))
	return nil
}
