package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Chain-Defenders/forge-defender/internal/cli"
	"github.com/Chain-Defenders/forge-defender/internal/cli/commands"
	"github.com/Chain-Defenders/forge-defender/internal/config"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "forge-defender",
		Short:   "Foundry test explorer and runner",
		Long:    `Discovers Solidity test contracts in a Foundry project, runs them through forge, and shows pass/fail, gas usage and duration per test as a colored summary, an interactive tree, or a JSON report.`,
		Version: version,
	}

	cfg := config.New()

	var flags cli.Flags

	cmds := commands.NewCommands(cfg, &flags)
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
