// Package ignore decides whether a filesystem path takes part in an upload.
//
// A RuleSet holds the ignore patterns from the command line or config file.
// Patterns are literal prefix matches, applied to both the basename and the
// working-directory-relative form of a path. A leading "^" anchor is
// accepted and stripped, so "^.tmp" and ".tmp" behave the same.
package ignore

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Class is the classification of a candidate path.
type Class int

const (
	// Ignored means the path matched an ignore pattern and is skipped
	// entirely, together with any descendants.
	Ignored Class = iota
	// RegularFile means the path is a regular file to be uploaded.
	RegularFile
	// Directory means the path is a directory to recurse into.
	Directory
	// NotFound means the path does not exist.
	NotFound
)

// String returns a human-readable name for the class.
func (c Class) String() string {
	switch c {
	case Ignored:
		return "ignored"
	case RegularFile:
		return "file"
	case Directory:
		return "directory"
	case NotFound:
		return "not found"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// DefaultPatterns ignores dotfiles, the conventional default for deploy
// uploads (.env, .git, .DS_Store and friends).
func DefaultPatterns() []string {
	return []string{"."}
}

// RuleSet is an ordered, immutable set of ignore patterns.
type RuleSet struct {
	patterns []string
}

// NewRuleSet builds a RuleSet from raw patterns. Empty patterns are dropped
// and a leading "^" is stripped from each.
func NewRuleSet(patterns []string) RuleSet {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimPrefix(p, "^")
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}
	return RuleSet{patterns: cleaned}
}

// ParsePatterns splits a comma-separated pattern list as given on the
// command line.
func ParsePatterns(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// Patterns returns a copy of the normalized patterns.
func (rs RuleSet) Patterns() []string {
	out := make([]string, len(rs.patterns))
	copy(out, rs.patterns)
	return out
}

// Match reports whether the basename or the relative form of a path matches
// any pattern. The working directory itself (rel ".") and paths outside it
// (rel "..", "../...") never match: patterns select within the tree, they do
// not drop the tree's root, and an out-of-tree path must reach the key
// derivation error instead of being silently skipped.
func (rs RuleSet) Match(base, rel string) bool {
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	for _, p := range rs.patterns {
		if strings.HasPrefix(base, p) || strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

// Classify determines what a path is. base and rel are the basename and the
// working-directory-relative form used for pattern matching. Ignored paths
// are decided before any stat, so an ignored path never touches the
// filesystem. The returned FileInfo is non-nil only for RegularFile and
// Directory.
func Classify(path, base, rel string, rs RuleSet) (Class, fs.FileInfo, error) {
	if rs.Match(base, rel) {
		return Ignored, nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NotFound, nil, nil
		}
		return NotFound, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch {
	case info.IsDir():
		return Directory, info, nil
	case info.Mode().IsRegular():
		return RegularFile, info, nil
	default:
		return NotFound, nil, fmt.Errorf("%s: unsupported file type %s", path, info.Mode().Type())
	}
}
