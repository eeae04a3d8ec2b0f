package config

const (
	// DefaultProjectPath is the default project root.
	DefaultProjectPath = "."
	// DefaultTestDir is the test directory used when neither foundry.toml
	// nor the project config file names one.
	DefaultTestDir = "test"
	// DefaultForgePath is the forge binary resolved from PATH.
	DefaultForgePath = "forge"
	// TestFileSuffix is the extension test sources must carry.
	TestFileSuffix = ".t.sol"
	// ConfigFileName is the optional per-project configuration file.
	ConfigFileName = ".forge-defender.yaml"
	// ManifestFileName gates the dependency-install pre-step.
	ManifestFileName = "package.json"
)

// ProjectMarkers are the files whose presence identifies a Foundry project.
var ProjectMarkers = []string{"foundry.toml", "foundry.lock"}

// DefaultSkipDirs are directory names never descended into while scanning.
var DefaultSkipDirs = []string{
	"lib",
	"node_modules",
	"out",
	"cache",
	"broadcast",
}
