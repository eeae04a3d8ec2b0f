package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Chain-Defenders/forge-defender/internal/cli"
	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/discovery"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
	"github.com/Chain-Defenders/forge-defender/internal/reconcile"
	"github.com/Chain-Defenders/forge-defender/internal/storage"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

// RunCommand handles the run command.
type RunCommand struct {
	config     *config.Config
	flags      *cli.Flags
	catalog    *domain.Catalog
	reconciler *reconcile.Reconciler
	formatter  *ui.Formatter
	storage    storage.Storage
	log        *ui.Logger
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(
	cfg *config.Config,
	flags *cli.Flags,
	catalog *domain.Catalog,
	reconciler *reconcile.Reconciler,
	formatter *ui.Formatter,
	st storage.Storage,
	log *ui.Logger,
) *RunCommand {
	return &RunCommand{
		config:     cfg,
		flags:      flags,
		catalog:    catalog,
		reconciler: reconciler,
		formatter:  formatter,
		storage:    st,
		log:        log,
	}
}

// Execute runs the command.
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	discoverer := discovery.NewDiscoverer(rc.config, rc.log)
	if err := discoverer.Discover(rc.catalog); err != nil {
		return err
	}

	_, _, _, _, total := rc.catalog.Stats()
	if total == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	description := fmt.Sprintf("Running %d test(s)...", total)
	if rc.flags.MatchTest != "" {
		description = fmt.Sprintf("Running %s...", rc.flags.MatchTest)
	}
	spinner := ui.NewSpinner(description)

	start := time.Now()
	err := rc.reconciler.Run(cmd.Context(), rc.flags.MatchTest)
	duration := time.Since(start)
	spinner.Finish()

	if err != nil {
		return err
	}

	rc.formatter.PrintCatalog(rc.catalog)
	rc.formatter.PrintSummary(rc.catalog, duration)

	if rc.flags.Output != "" {
		if err := rc.storage.Save(rc.flags.Output, rc.catalog, duration); err != nil {
			return fmt.Errorf("failed to save run summary: %w", err)
		}
		rc.log.Infof("run summary written to %s", rc.flags.Output)
	}

	if rc.flags.Tree {
		viewer := ui.NewTreeViewer(rc.config, rc.catalog, func(testName string) error {
			return rc.reconciler.Run(cmd.Context(), testName)
		})
		if err := viewer.View(); err != nil {
			return err
		}
	}

	if _, failed, _, _, _ := rc.catalog.Stats(); failed > 0 {
		return fmt.Errorf("%d test(s) failed", failed)
	}
	return nil
}
