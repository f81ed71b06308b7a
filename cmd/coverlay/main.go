package main

import (
	"os"

	"github.com/grovetools/coverlay/cli"
	"github.com/grovetools/coverlay/cmd"
	"github.com/grovetools/coverlay/starship"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"coverlay",
		"Live code coverage overlay for Neovim",
	)

	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewShowCmd())
	rootCmd.AddCommand(cmd.NewRunCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(starship.NewStarshipCmd("coverlay"))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	cli.ApplyStyledHelpRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
