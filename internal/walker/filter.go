package walker

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchesInclude reports whether relPath matches any include pattern. An
// empty pattern list includes everything.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude reports whether relPath matches any exclude pattern.
func MatchesExclude(relPath string, patterns []string) bool {
	return matchesAny(relPath, patterns)
}

// matchesAny matches relPath against each pattern using doublestar for
// ** support; the basename is also tried so bare patterns like "*.pdf"
// match at any depth.
func matchesAny(relPath string, patterns []string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
