package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Chain-Defenders/forge-defender/internal/cli"
	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/discovery"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
	"github.com/Chain-Defenders/forge-defender/internal/storage"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

// ListCommand handles the list command.
type ListCommand struct {
	config    *config.Config
	flags     *cli.Flags
	catalog   *domain.Catalog
	formatter *ui.Formatter
	log       *ui.Logger
}

// NewListCommand creates a new ListCommand.
func NewListCommand(
	cfg *config.Config,
	flags *cli.Flags,
	catalog *domain.Catalog,
	formatter *ui.Formatter,
	log *ui.Logger,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		flags:     flags,
		catalog:   catalog,
		formatter: formatter,
		log:       log,
	}
}

// Execute runs the command.
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	discoverer := discovery.NewDiscoverer(lc.config, lc.log)
	if err := discoverer.Discover(lc.catalog); err != nil {
		return err
	}

	if lc.flags.JSON {
		summary := storage.Snapshot(lc.catalog, 0)
		data, err := json.MarshalIndent(summary.Contracts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal catalog: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}

	if len(lc.catalog.Contracts()) == 0 {
		color.Yellow("No test contracts found")
		return nil
	}
	lc.formatter.PrintCatalog(lc.catalog)
	return nil
}
