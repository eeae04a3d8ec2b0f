package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}
	if len(cfg.TestDirs) != 1 || cfg.TestDirs[0] != DefaultTestDir {
		t.Errorf("expected default test dir, got %v", cfg.TestDirs)
	}
	if cfg.ForgePath != DefaultForgePath {
		t.Errorf("expected forge path %s, got %s", DefaultForgePath, cfg.ForgePath)
	}
	if !cfg.InstallDeps || !cfg.BuildBeforeRun || !cfg.RerunOnChange || !cfg.ShowGas {
		t.Error("install, build, rerun and gas display should default to enabled")
	}
	if len(cfg.SkipDirs) != len(DefaultSkipDirs) {
		t.Errorf("expected %d skip dirs, got %d", len(DefaultSkipDirs), len(cfg.SkipDirs))
	}
}

func TestDetectProject(t *testing.T) {
	t.Run("foundry.toml marks a project", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "foundry.toml"), "[profile.default]\n")
		if !DetectProject(root) {
			t.Error("expected project to be detected")
		}
	})

	t.Run("foundry.lock marks a project", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "foundry.lock"), "{}")
		if !DetectProject(root) {
			t.Error("expected project to be detected")
		}
	})

	t.Run("empty directory is not a project", func(t *testing.T) {
		if DetectProject(t.TempDir()) {
			t.Error("expected no project")
		}
	})
}

func TestConfig_Load(t *testing.T) {
	t.Run("foundry.toml seeds the test directory", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "foundry.toml"), `
[profile.default]
src = "src"
test = "tests"
`)
		cfg := New()
		cfg.ProjectPath = root
		if err := cfg.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.TestDirs) != 1 || cfg.TestDirs[0] != "tests" {
			t.Errorf("expected tests dir from foundry.toml, got %v", cfg.TestDirs)
		}
	})

	t.Run("config file overrides foundry.toml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "foundry.toml"), `
[profile.default]
test = "tests"
`)
		writeFile(t, filepath.Join(root, ConfigFileName), `
test_dirs:
  - test/unit
  - test/integration
exclude:
  - "*Fork*"
build_before_run: false
show_gas: false
`)
		cfg := New()
		cfg.ProjectPath = root
		if err := cfg.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.TestDirs) != 2 || cfg.TestDirs[0] != "test/unit" {
			t.Errorf("expected config file test dirs, got %v", cfg.TestDirs)
		}
		if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "*Fork*" {
			t.Errorf("expected exclude patterns, got %v", cfg.Exclude)
		}
		if cfg.BuildBeforeRun {
			t.Error("build_before_run: false should disable the build step")
		}
		if cfg.ShowGas {
			t.Error("show_gas: false should disable gas display")
		}
		if !cfg.InstallDeps {
			t.Error("unset install_deps must keep its default")
		}
	})

	t.Run("missing files leave defaults alone", func(t *testing.T) {
		cfg := New()
		cfg.ProjectPath = t.TempDir()
		if err := cfg.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.TestDirs) != 1 || cfg.TestDirs[0] != DefaultTestDir {
			t.Errorf("expected default test dir, got %v", cfg.TestDirs)
		}
	})

	t.Run("malformed config file is an error", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ConfigFileName), "test_dirs: [unbalanced")
		cfg := New()
		cfg.ProjectPath = root
		if err := cfg.Load(); err == nil {
			t.Error("expected error for malformed config file")
		}
	})
}

func TestConfig_TestRoots(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"
	cfg.TestDirs = []string{"test", "/absolute/tests"}

	roots := cfg.TestRoots()
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0] != filepath.Join("/project", "test") {
		t.Errorf("expected project-relative root, got %s", roots[0])
	}
	if roots[1] != "/absolute/tests" {
		t.Errorf("expected absolute root kept as-is, got %s", roots[1])
	}
}
