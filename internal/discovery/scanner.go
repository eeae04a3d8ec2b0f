package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Chain-Defenders/forge-defender/internal/config"
)

// Scanner scans a directory tree for Solidity test sources.
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a Scanner that never descends into the given
// directory names.
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all test source files under root. Only files carrying the
// test extension (.t.sol) are considered; hidden directories and the
// configured skip directories are pruned.
func (s *Scanner) Scan(root string) ([]string, error) {
	var testFiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") && name != "." && name != ".." {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(d.Name(), config.TestFileSuffix) {
			testFiles = append(testFiles, path)
		}
		return nil
	})

	return testFiles, err
}
