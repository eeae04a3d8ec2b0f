package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
//
// Precedence, lowest to highest: built-in defaults, the test directory from
// foundry.toml, the project config file, .env / environment variables, and
// finally command-line flags (applied by the CLI after Load).
type Config struct {
	// Project settings
	ProjectPath string
	TestDirs    []string
	Exclude     []string
	SkipDirs    []string

	// Runner settings
	ForgePath      string
	InstallDeps    bool
	BuildBeforeRun bool

	// Behaviour toggles
	RerunOnChange bool
	ShowGas       bool
	Verbose       bool
}

// fileConfig is the shape of the optional .forge-defender.yaml file.
// Pointer fields distinguish "absent" from "explicitly false".
type fileConfig struct {
	TestDirs       []string `yaml:"test_dirs"`
	Exclude        []string `yaml:"exclude"`
	InstallDeps    *bool    `yaml:"install_deps"`
	BuildBeforeRun *bool    `yaml:"build_before_run"`
	RerunOnChange  *bool    `yaml:"rerun_on_change"`
	ShowGas        *bool    `yaml:"show_gas"`
	Verbose        *bool    `yaml:"verbose"`
}

// New creates a Config with defaults.
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestDirs:       []string{DefaultTestDir},
		ForgePath:      DefaultForgePath,
		InstallDeps:    true,
		BuildBeforeRun: true,
		RerunOnChange:  true,
		ShowGas:        true,
	}
	cfg.SkipDirs = make([]string, len(DefaultSkipDirs))
	copy(cfg.SkipDirs, DefaultSkipDirs)
	return cfg
}

// DetectProject reports whether the directory looks like a Foundry project,
// i.e. carries one of the known marker files at its root.
func DetectProject(root string) bool {
	for _, marker := range ProjectMarkers {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return true
		}
	}
	return false
}

// Load reads project-level configuration from ProjectPath: the .env file,
// foundry.toml's test directory, and the project config file. Missing files
// are fine; a malformed config file is an error.
func (c *Config) Load() error {
	// .env may override the forge binary via FORGE_PATH. No .env is the
	// common case, so a load error is not one.
	_ = godotenv.Load(filepath.Join(c.ProjectPath, ".env"))
	if forgePath := os.Getenv("FORGE_PATH"); forgePath != "" {
		c.ForgePath = forgePath
	}

	if dir := testDirFromFoundryTOML(filepath.Join(c.ProjectPath, "foundry.toml")); dir != "" {
		c.TestDirs = []string{dir}
	}

	return c.loadFile(filepath.Join(c.ProjectPath, ConfigFileName))
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}

	if len(fc.TestDirs) > 0 {
		c.TestDirs = fc.TestDirs
	}
	if len(fc.Exclude) > 0 {
		c.Exclude = fc.Exclude
	}
	if fc.InstallDeps != nil {
		c.InstallDeps = *fc.InstallDeps
	}
	if fc.BuildBeforeRun != nil {
		c.BuildBeforeRun = *fc.BuildBeforeRun
	}
	if fc.RerunOnChange != nil {
		c.RerunOnChange = *fc.RerunOnChange
	}
	if fc.ShowGas != nil {
		c.ShowGas = *fc.ShowGas
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	return nil
}

// TestRoots returns the absolute paths of the configured test directories.
func (c *Config) TestRoots() []string {
	roots := make([]string, 0, len(c.TestDirs))
	for _, dir := range c.TestDirs {
		if filepath.IsAbs(dir) {
			roots = append(roots, dir)
			continue
		}
		roots = append(roots, filepath.Join(c.ProjectPath, dir))
	}
	return roots
}

// ManifestPath returns the path of the dependency manifest whose presence
// enables the install pre-step.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.ProjectPath, ManifestFileName)
}
