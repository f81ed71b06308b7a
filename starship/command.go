package starship

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/coverlay/state"
)

// NewStarshipCmd creates the starship command and its subcommands. The
// binaryName parameter is used to configure the command in starship.toml
// (e.g. "coverlay" generates "command = \"coverlay starship status\"").
func NewStarshipCmd(binaryName string) *cobra.Command {
	starshipCmd := &cobra.Command{
		Use:   "starship",
		Short: "Manage Starship prompt integration",
		Long:  `Provides commands to show the workspace coverage summary in the Starship prompt.`,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install the coverage module to your starship.toml",
		Long: `Appends a custom module to your starship.toml configuration file to display
the latest coverage summary in your shell prompt, and attempts to add the
module to your main prompt format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStarshipInstall(binaryName)
		},
	}

	statusCmd := &cobra.Command{
		Use:    "status",
		Short:  "Print status for Starship prompt (for internal use)",
		Hidden: true,
		RunE:   runStarshipStatus,
	}

	starshipCmd.AddCommand(installCmd)
	starshipCmd.AddCommand(statusCmd)

	return starshipCmd
}

func runStarshipInstall(binaryName string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("could not get home directory: %w", err)
	}

	configPath := filepath.Join(home, ".config", "starship.toml")

	contentBytes, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("starship config not found at %s. Please ensure starship is installed and configured", configPath)
		}
		return fmt.Errorf("could not read starship config: %w", err)
	}
	content := string(contentBytes)

	moduleConfig := fmt.Sprintf(`
# Added by '%s starship install'
[custom.coverlay]
description = "Shows the workspace coverage summary"
command = "%s starship status"
when = "test -f .coverlay/state.yml || test -f coverlay.yml"
format = " $output "
`, binaryName, binaryName)

	if strings.Contains(content, "[custom.coverlay]") {
		if !strings.Contains(content, fmt.Sprintf(`command = "%s starship status"`, binaryName)) {
			fmt.Printf("ℹ️  [custom.coverlay] already exists with a different command.\n")
			fmt.Printf("   Keeping existing configuration to avoid conflicts.\n")
		} else {
			// Same command: replace the whole section up to the next one.
			startIdx := strings.Index(content, "[custom.coverlay]")
			if startIdx != -1 {
				afterModule := content[startIdx:]
				nextSectionIdx := strings.Index(afterModule[1:], "\n[")

				var endIdx int
				if nextSectionIdx != -1 {
					endIdx = startIdx + nextSectionIdx + 1
				} else {
					endIdx = len(content)
				}

				content = content[:startIdx] + moduleConfig + content[endIdx:]
				fmt.Println("✓ Updated existing coverage starship module configuration.")
			}
		}
	} else {
		content += moduleConfig
		fmt.Println("✓ Added [custom.coverlay] module to starship config.")
	}

	if strings.Contains(content, "${custom.coverlay}") || strings.Contains(content, "$custom.coverlay") {
		fmt.Println("✓ Coverage module already in starship format.")
	} else {
		// Try to insert it after git_metrics, a common prompt element.
		target := "$git_metrics\\"
		if strings.Contains(content, target) {
			replacement := target + "\n${custom.coverlay}\\"
			content = strings.Replace(content, target, replacement, 1)
			fmt.Println("✓ Added coverage module to starship format.")
		} else {
			fmt.Printf("⚠️  Could not automatically add '${custom.coverlay}' to your starship format.\n")
			fmt.Printf("   Please add it manually to the 'format' string in %s\n", configPath)
		}
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write updated starship config: %w", err)
	}

	fmt.Printf("\nSuccessfully updated %s. Please restart your shell to see the changes.\n", configPath)
	return nil
}

func runStarshipStatus(cmd *cobra.Command, args []string) error {
	// This command must be fast and must not print errors to stderr.
	currentState, err := state.Load()
	if err != nil {
		return nil
	}

	var outputs []string
	for _, provider := range providers {
		output, err := provider(currentState)
		if err != nil {
			continue
		}
		if output != "" {
			outputs = append(outputs, output)
		}
	}

	if len(outputs) > 0 {
		fmt.Print(strings.Join(outputs, " | "))
	}

	return nil
}
