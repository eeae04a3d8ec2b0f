package cli

import (
	"testing"

	"github.com/Chain-Defenders/forge-defender/internal/config"
)

func TestFlags_Apply(t *testing.T) {
	t.Run("set flags override config", func(t *testing.T) {
		cfg := config.New()
		flags := Flags{
			TestDirs:  []string{"testsuite"},
			Exclude:   []string{"*Slow*"},
			NoInstall: true,
			NoBuild:   true,
			NoGas:     true,
			Verbose:   true,
		}
		flags.Apply(cfg)

		if len(cfg.TestDirs) != 1 || cfg.TestDirs[0] != "testsuite" {
			t.Errorf("unexpected test dirs: %v", cfg.TestDirs)
		}
		if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "*Slow*" {
			t.Errorf("unexpected exclude: %v", cfg.Exclude)
		}
		if cfg.InstallDeps || cfg.BuildBeforeRun || cfg.ShowGas {
			t.Error("negative flags should disable their toggles")
		}
		if !cfg.Verbose {
			t.Error("verbose flag should enable verbose logging")
		}
	})

	t.Run("unset flags keep config values", func(t *testing.T) {
		cfg := config.New()
		cfg.TestDirs = []string{"from-config"}
		cfg.ShowGas = false

		var flags Flags
		flags.Apply(cfg)

		if cfg.TestDirs[0] != "from-config" {
			t.Errorf("unset flag overwrote config: %v", cfg.TestDirs)
		}
		if cfg.ShowGas {
			t.Error("unset flag overwrote config toggle")
		}
		if !cfg.InstallDeps || !cfg.BuildBeforeRun {
			t.Error("defaults should survive empty flags")
		}
	})
}
