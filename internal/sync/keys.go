package sync

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ObjectKey derives the remote object key for an absolute local path: the
// path relative to workDir, slash-separated, with prefix prepended when
// non-empty. A path outside workDir is a programmer error on the caller's
// part; the traversal engine only hands over paths it resolved against
// workDir.
func ObjectKey(absPath, workDir, prefix string) (string, error) {
	rel, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return "", fmt.Errorf("derive key for %s: %w", absPath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("derive key for %s: not under working directory %s", absPath, workDir)
	}

	key := filepath.ToSlash(rel)
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key, nil
}

// relativeTo returns the workDir-relative form of a path for ignore-pattern
// matching, or the basename when the path cannot be made relative.
func relativeTo(workDir, absPath string) string {
	rel, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return filepath.Base(absPath)
	}
	return filepath.ToSlash(rel)
}
