package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/grovetools/coverlay/cli"
	"github.com/grovetools/coverlay/config"
	"github.com/grovetools/coverlay/coverage"
	"github.com/grovetools/coverlay/tui/theme"
	"github.com/grovetools/coverlay/util/pathutil"
)

// NewShowCmd creates the `show` command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a one-shot coverage summary for the workspace",
		Long: `Discovers coverage reports, parses them, and prints the aggregate line and
branch coverage. With a file argument, also prints that file's coverage.

Examples:
  # Workspace totals
  coverlay show

  # Totals plus one file
  coverlay show internal/server/server.go

  # Machine-readable output
  coverlay show --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShowE,
	}

	cmd.Flags().Bool("files", false, "List per-file line coverage")

	return cmd
}

// showSummary is the JSON shape of the `show --json` output. Undefined
// percentages are encoded as null.
type showSummary struct {
	Reports       []string       `json:"reports"`
	TotalLines    int            `json:"total_lines"`
	TotalBranches int            `json:"total_branches"`
	File          string         `json:"file,omitempty"`
	FileLines     *int           `json:"file_lines,omitempty"`
	FileBranches  *int           `json:"file_branches,omitempty"`
	Files         map[string]int `json:"files,omitempty"`
}

func runShowE(cmd *cobra.Command, args []string) error {
	handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return handler.Handle(err)
	}

	root, err := os.Getwd()
	if err != nil {
		return err
	}

	reports, cache, err := buildCache(cmd.Context(), cfg, root)
	if err != nil {
		return handler.Handle(err)
	}

	editorFile := ""
	if len(args) == 1 {
		editorFile, err = pathutil.Expand(args[0])
		if err != nil {
			return err
		}
	}
	summary := coverage.Summarize(cache, editorFile)

	listFiles, _ := cmd.Flags().GetBool("files")

	if cli.GetOptions(cmd).JSONOutput {
		out := showSummary{
			Reports:       reports,
			TotalLines:    summary.TotalLines.Value(),
			TotalBranches: summary.TotalBranches.Value(),
		}
		if editorFile != "" {
			out.File = editorFile
			out.FileLines = percentPtr(summary.FileLines)
			out.FileBranches = percentPtr(summary.FileBranches)
		}
		if listFiles {
			out.Files = make(map[string]int, len(cache))
			for path, section := range cache {
				out.Files[path] = coverage.RatioOrZero(section.Lines.Hit, section.Lines.Found).Value()
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	t := theme.DefaultTheme
	fmt.Printf("%s %d report(s), %d file(s)\n",
		t.Info.Render("☂"), len(reports), len(cache))
	fmt.Printf("  Lines:    %s\n", renderPercent(t, summary.TotalLines, cfg.LineThreshold()))
	fmt.Printf("  Branches: %s\n", renderPercent(t, summary.TotalBranches, cfg.BranchThreshold()))

	if editorFile != "" {
		fmt.Printf("\n%s\n", t.Accent.Render(editorFile))
		fmt.Printf("  Lines:    %s\n", formatPercent(summary.FileLines))
		fmt.Printf("  Branches: %s\n", formatPercent(summary.FileBranches))
	}

	if listFiles {
		paths := make([]string, 0, len(cache))
		for path := range cache {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		fmt.Println()
		for _, path := range paths {
			section := cache[path]
			ratio := coverage.RatioOrZero(section.Lines.Hit, section.Lines.Found)
			fmt.Printf("  %3d%%  %s\n", ratio.Value(), path)
		}
	}
	return nil
}

// buildCache runs the discover/read/parse pipeline once and returns the
// report paths alongside the merged cache.
func buildCache(ctx context.Context, cfg *config.Config, root string) ([]string, coverage.Cache, error) {
	paths, err := coverage.FindCoverageFiles(ctx, cfg, root)
	if err != nil {
		return nil, nil, err
	}
	contents, err := coverage.LoadFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	return paths, coverage.FilesToSections(contents, cfg.Coverage.BaseDir), nil
}

func percentPtr(p coverage.Percent) *int {
	if !p.Defined() {
		return nil
	}
	v := p.Value()
	return &v
}

func formatPercent(p coverage.Percent) string {
	if !p.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", p.Value())
}

func renderPercent(t *theme.Theme, p coverage.Percent, threshold float64) string {
	text := formatPercent(p)
	if !p.Defined() {
		return t.Muted.Render(text)
	}
	if float64(p.Value()) < threshold {
		return t.Warning.Render(text)
	}
	return t.Success.Render(text)
}
