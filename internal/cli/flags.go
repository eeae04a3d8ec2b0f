package cli

import "github.com/Chain-Defenders/forge-defender/internal/config"

// Flags holds command-line flags.
type Flags struct {
	Root      string
	TestDirs  []string
	Exclude   []string
	MatchTest string
	NoInstall bool
	NoBuild   bool
	NoGas     bool
	Verbose   bool
	Tree      bool
	Output    string
	JSON      bool
}

// Apply overrides config values with the flags that were set. Flags win
// over every other configuration source.
func (f *Flags) Apply(cfg *config.Config) {
	if len(f.TestDirs) > 0 {
		cfg.TestDirs = f.TestDirs
	}
	if len(f.Exclude) > 0 {
		cfg.Exclude = f.Exclude
	}
	if f.NoInstall {
		cfg.InstallDeps = false
	}
	if f.NoBuild {
		cfg.BuildBeforeRun = false
	}
	if f.NoGas {
		cfg.ShowGas = false
	}
	if f.Verbose {
		cfg.Verbose = true
	}
}
