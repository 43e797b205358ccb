// Ignore handling adapted from gitignore semantics: discovery respects the
// workspace .gitignore plus a tool-specific .uvmigrateignore overlay.
package modules

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreMatcher provides gitignore-based filtering for module discovery
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher creates a matcher with layered ignore files:
// 1. built-in patterns that never hold modules
// 2. .gitignore and related git ignore files
// 3. .uvmigrateignore (workspace overrides)
func NewIgnoreMatcher(root string) (*IgnoreMatcher, error) {
	fs := osfs.New(root)

	var allPatterns []gitignore.Pattern

	defaultPatterns := []string{".git/**", ".venv/**", "__pycache__/**"}
	for _, pattern := range defaultPatterns {
		allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
	}

	// ReadPatterns with nil reads .gitignore, global excludes, and .git/info/exclude
	if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
		allPatterns = append(allPatterns, gitPatterns...)
	}

	if overrides, err := readIgnoreFile(filepath.Join(root, ".uvmigrateignore")); err == nil {
		for _, pattern := range overrides {
			allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
		}
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(allPatterns)}, nil
}

// IsIgnored reports whether the given workspace-relative path is ignored
func (m *IgnoreMatcher) IsIgnored(relPath string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	return m.matcher.Match(parts, isDir)
}

// readIgnoreFile reads patterns from an ignore file, skipping blanks and comments
func readIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- path is derived from the workspace root
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
