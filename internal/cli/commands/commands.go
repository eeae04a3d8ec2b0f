package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Chain-Defenders/forge-defender/internal/cli"
	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
	"github.com/Chain-Defenders/forge-defender/internal/forge"
	"github.com/Chain-Defenders/forge-defender/internal/reconcile"
	"github.com/Chain-Defenders/forge-defender/internal/storage"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

// Commands holds all CLI commands.
type Commands struct {
	Run   *RunCommand
	List  *ListCommand
	View  *ViewCommand
	Watch *WatchCommand
}

// NewCommands creates all commands with shared dependencies. The catalog
// is the single shared state: discovery replaces it, reconciliation
// mutates it, presentation reads it.
func NewCommands(cfg *config.Config, flags *cli.Flags) *Commands {
	catalog := domain.NewCatalog()
	log := ui.NewLogger(cfg)
	runner := forge.NewRunner(cfg, log)
	reconciler := reconcile.NewReconciler(catalog, runner, log)
	formatter := ui.NewFormatter(cfg)
	jsonStorage := storage.NewJSONStorage()

	return &Commands{
		Run:   NewRunCommand(cfg, flags, catalog, reconciler, formatter, jsonStorage, log),
		List:  NewListCommand(cfg, flags, catalog, formatter, log),
		View:  NewViewCommand(cfg, flags, catalog, reconciler, log),
		Watch: NewWatchCommand(cfg, flags, catalog, reconciler, formatter, log),
	}
}

// Register registers all commands with cobra.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Shared by every command: resolve the project root, require a
	// Foundry project, then layer config sources under the flags.
	preRun := func(cmd *cobra.Command, args []string) error {
		if flags.Root != "" {
			cfg.ProjectPath = flags.Root
		}
		if !config.DetectProject(cfg.ProjectPath) {
			return fmt.Errorf("%s is not a Foundry project (no foundry.toml or foundry.lock)", cfg.ProjectPath)
		}
		if err := cfg.Load(); err != nil {
			return err
		}
		flags.Apply(cfg)
		return nil
	}

	addCommonFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&flags.Root, "root", "", "Project root (defaults to the current directory)")
		cmd.Flags().StringSliceVarP(&flags.TestDirs, "test-dir", "t", nil, "Test directories to scan (relative to the project root)")
		cmd.Flags().StringSliceVarP(&flags.Exclude, "exclude", "e", nil, "Glob patterns for test files to skip (e.g. '*Fork*')")
		cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	}

	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run Foundry tests and show results",
		Long:    "Discover Solidity test contracts, run them through forge, and show pass/fail, gas and duration per test",
		RunE:    c.Run.Execute,
		PreRunE: preRun,
	}
	addCommonFlags(runCmd)
	runCmd.Flags().StringVarP(&flags.MatchTest, "match-test", "m", "", "Run only the test function with this name")
	runCmd.Flags().BoolVar(&flags.NoInstall, "no-install", false, "Skip the dependency install pre-step")
	runCmd.Flags().BoolVar(&flags.NoBuild, "no-build", false, "Skip the forge build pre-step")
	runCmd.Flags().BoolVar(&flags.NoGas, "no-gas", false, "Hide gas usage in the output")
	runCmd.Flags().BoolVar(&flags.Tree, "tree", false, "Open the interactive tree viewer after the run")
	runCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Write a JSON run summary to this file")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered test contracts",
		Long:    "Scan and list Solidity test contracts and their test functions without executing them",
		RunE:    c.List.Execute,
		PreRunE: preRun,
	}
	addCommonFlags(listCmd)
	listCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(listCmd)

	viewCmd := &cobra.Command{
		Use:     "view",
		Short:   "Browse tests in an interactive tree",
		Long:    "Open an interactive tree of contracts and tests; press r to run the selected test or the whole suite",
		RunE:    c.View.Execute,
		PreRunE: preRun,
	}
	addCommonFlags(viewCmd)
	viewCmd.Flags().BoolVar(&flags.NoInstall, "no-install", false, "Skip the dependency install pre-step")
	viewCmd.Flags().BoolVar(&flags.NoBuild, "no-build", false, "Skip the forge build pre-step")
	viewCmd.Flags().BoolVar(&flags.NoGas, "no-gas", false, "Hide gas usage in the tree")
	rootCmd.AddCommand(viewCmd)

	watchCmd := &cobra.Command{
		Use:     "watch",
		Short:   "Re-run tests when sources change",
		Long:    "Watch the test directories and re-discover (and re-run, unless disabled) on Solidity file changes",
		RunE:    c.Watch.Execute,
		PreRunE: preRun,
	}
	addCommonFlags(watchCmd)
	watchCmd.Flags().BoolVar(&flags.NoInstall, "no-install", false, "Skip the dependency install pre-step")
	watchCmd.Flags().BoolVar(&flags.NoBuild, "no-build", false, "Skip the forge build pre-step")
	watchCmd.Flags().BoolVar(&flags.NoGas, "no-gas", false, "Hide gas usage in the output")
	rootCmd.AddCommand(watchCmd)
}
