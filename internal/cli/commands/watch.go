package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Chain-Defenders/forge-defender/internal/cli"
	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/discovery"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
	"github.com/Chain-Defenders/forge-defender/internal/reconcile"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
	"github.com/Chain-Defenders/forge-defender/internal/watch"
)

// WatchCommand handles the watch command.
type WatchCommand struct {
	config     *config.Config
	flags      *cli.Flags
	catalog    *domain.Catalog
	reconciler *reconcile.Reconciler
	formatter  *ui.Formatter
	log        *ui.Logger
}

// NewWatchCommand creates a new WatchCommand.
func NewWatchCommand(
	cfg *config.Config,
	flags *cli.Flags,
	catalog *domain.Catalog,
	reconciler *reconcile.Reconciler,
	formatter *ui.Formatter,
	log *ui.Logger,
) *WatchCommand {
	return &WatchCommand{
		config:     cfg,
		flags:      flags,
		catalog:    catalog,
		reconciler: reconciler,
		formatter:  formatter,
		log:        log,
	}
}

// Execute runs the command until interrupted.
func (wc *WatchCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	discoverer := discovery.NewDiscoverer(wc.config, wc.log)
	if err := discoverer.Discover(wc.catalog); err != nil {
		return err
	}
	wc.cycle(ctx, discoverer, false)

	watcher := watch.New(wc.config, wc.log, func() {
		wc.cycle(ctx, discoverer, true)
	})

	err := watcher.Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// cycle re-discovers and, when enabled, runs the suite and prints results.
func (wc *WatchCommand) cycle(ctx context.Context, discoverer *discovery.Discoverer, rediscover bool) {
	if rediscover {
		if err := discoverer.Discover(wc.catalog); err != nil {
			wc.log.Errorf("discovery failed: %v", err)
			return
		}
	}

	if !wc.config.RerunOnChange {
		wc.formatter.PrintCatalog(wc.catalog)
		return
	}

	start := time.Now()
	if err := wc.reconciler.Run(ctx, ""); err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			wc.log.Warnf("change ignored: %v", err)
			return
		}
		wc.log.Errorf("run failed: %v", err)
		return
	}

	wc.formatter.PrintCatalog(wc.catalog)
	wc.formatter.PrintSummary(wc.catalog, time.Since(start))
	wc.log.Infof("waiting for changes... (Ctrl+C to exit)")
}
