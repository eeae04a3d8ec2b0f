package config

import (
	"github.com/BurntSushi/toml"
)

// foundryTOML covers the slice of foundry.toml this tool cares about: the
// per-profile test directory.
type foundryTOML struct {
	Profile map[string]foundryProfile `toml:"profile"`
}

type foundryProfile struct {
	Test string `toml:"test"`
}

// testDirFromFoundryTOML returns the default profile's test directory, or
// "" when the file is missing, malformed, or does not set one. foundry.toml
// problems never block the tool; forge itself will complain about them.
func testDirFromFoundryTOML(path string) string {
	var ft foundryTOML
	if _, err := toml.DecodeFile(path, &ft); err != nil {
		return ""
	}
	return ft.Profile["default"].Test
}
