package discovery

import (
	"fmt"
	"path/filepath"

	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/domain"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

// Discoverer scans the configured test directories and rebuilds the
// catalog. Unreadable files and missing directories are logged and
// skipped, never fatal for the remainder of the pass.
type Discoverer struct {
	config   *config.Config
	scanner  *Scanner
	excluder *Excluder
	parser   *Parser
	log      *ui.Logger
}

// NewDiscoverer creates a Discoverer wired to the config's directories and
// exclusion patterns.
func NewDiscoverer(cfg *config.Config, log *ui.Logger) *Discoverer {
	return &Discoverer{
		config:   cfg,
		scanner:  NewScanner(cfg.SkipDirs),
		excluder: NewExcluder(cfg.Exclude),
		parser:   NewParser(),
		log:      log,
	}
}

// Discover replaces the catalog's contents with a fresh scan. It fails
// only when none of the configured test directories could be scanned.
func (d *Discoverer) Discover(catalog *domain.Catalog) error {
	var contracts []*domain.TestContract
	scanned := 0

	for _, root := range d.config.TestRoots() {
		files, err := d.scanner.Scan(root)
		if err != nil {
			d.log.Warnf("skipping test directory %s: %v", root, err)
			continue
		}
		scanned++

		for _, file := range files {
			relPath, err := filepath.Rel(d.config.ProjectPath, file)
			if err != nil {
				relPath = file
			}
			relPath = filepath.ToSlash(relPath)

			if d.excluder.Excluded(relPath) {
				d.log.Debugf("excluded %s", relPath)
				continue
			}

			parsed, err := d.parser.ParseFile(file, relPath)
			if err != nil {
				d.log.Warnf("skipping %s: %v", relPath, err)
				continue
			}
			contracts = append(contracts, parsed...)
		}
	}

	if scanned == 0 && len(d.config.TestDirs) > 0 {
		return fmt.Errorf("no test directories could be scanned under %s", d.config.ProjectPath)
	}

	catalog.Replace(contracts)
	return nil
}
