package commands

import (
	"github.com/spf13/cobra"

	"github.com/Chain-Defenders/forge-defender/internal/cli"
	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/discovery"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
	"github.com/Chain-Defenders/forge-defender/internal/reconcile"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

// ViewCommand handles the view command.
type ViewCommand struct {
	config     *config.Config
	flags      *cli.Flags
	catalog    *domain.Catalog
	reconciler *reconcile.Reconciler
	log        *ui.Logger
}

// NewViewCommand creates a new ViewCommand.
func NewViewCommand(
	cfg *config.Config,
	flags *cli.Flags,
	catalog *domain.Catalog,
	reconciler *reconcile.Reconciler,
	log *ui.Logger,
) *ViewCommand {
	return &ViewCommand{
		config:     cfg,
		flags:      flags,
		catalog:    catalog,
		reconciler: reconciler,
		log:        log,
	}
}

// Execute runs the command.
func (vc *ViewCommand) Execute(cmd *cobra.Command, args []string) error {
	discoverer := discovery.NewDiscoverer(vc.config, vc.log)
	if err := discoverer.Discover(vc.catalog); err != nil {
		return err
	}

	viewer := ui.NewTreeViewer(vc.config, vc.catalog, func(testName string) error {
		return vc.reconciler.Run(cmd.Context(), testName)
	})
	return viewer.View()
}
