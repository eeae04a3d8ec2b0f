package discovery

import (
	"path/filepath"
	"strings"
)

// Excluder drops files matching the configured exclusion patterns.
// Patterns are glob strings matched against the slash-separated relative
// path and against the base name, with a looser multi-wildcard fallback for
// patterns like "*Fork*" that filepath.Match alone handles poorly.
type Excluder struct {
	patterns []string
}

// NewExcluder creates a new Excluder.
func NewExcluder(patterns []string) *Excluder {
	return &Excluder{patterns: patterns}
}

// Excluded reports whether the relative path matches any exclusion pattern.
func (e *Excluder) Excluded(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	base := filepath.Base(relPath)

	for _, pattern := range e.patterns {
		if pattern == "" {
			continue
		}
		if matched, err := filepath.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
		if matchLoose(pattern, relPath) {
			return true
		}
	}
	return false
}

// matchLoose treats a wildcard pattern as an ordered set of substrings, so
// "*Fork*" excludes any path containing "Fork" and "test/*/gas*" excludes
// paths containing "test/" then "/gas" in order. Patterns without
// wildcards fall back to a plain substring check.
func matchLoose(pattern, path string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(path, pattern)
	}
	if strings.Contains(pattern, "?") {
		return false
	}

	parts := strings.Split(pattern, "*")
	rest := path
	hasNonEmptyPart := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		hasNonEmptyPart = true
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return hasNonEmptyPart
}
