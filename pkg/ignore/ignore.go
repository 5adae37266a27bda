// Package ignore provides gitignore-style path filtering for course discovery using go-git
package ignore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/coursekit/pkg/safeio"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher filters paths below a root directory
type Matcher struct {
	root     string
	patterns []string
	matcher  gitignore.Matcher
}

// NewMatcher reads the named ignore files relative to root. Names that climb
// out of root are rejected. Missing files are skipped; a nil-safe Matcher
// without patterns ignores nothing.
func NewMatcher(fs billy.Filesystem, root string, files ...string) (*Matcher, error) {
	m := &Matcher{root: filepath.Clean(root)}

	var all []gitignore.Pattern
	for _, name := range files {
		if name == "" {
			continue
		}
		rel, err := safeio.CleanUserPath(name)
		if err != nil {
			return nil, fmt.Errorf("ignore file %q: %w", name, err)
		}
		lines, err := readIgnoreFile(fs, filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, line := range lines {
			all = append(all, gitignore.ParsePattern(line, nil))
		}
		m.patterns = append(m.patterns, lines...)
	}

	m.matcher = gitignore.NewMatcher(all)
	return m, nil
}

// readIgnoreFile reads patterns from a text file, dropping blanks and comments
func readIgnoreFile(fs billy.Filesystem, path string) ([]string, error) {
	content, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// Patterns returns the raw patterns that were loaded
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// IsIgnored checks if a file path should be ignored
func (m *Matcher) IsIgnored(path string) bool {
	return m.match(path, false)
}

// IsIgnoredDir checks if a directory should be ignored (and thus skipped during traversal)
func (m *Matcher) IsIgnoredDir(path string) bool {
	return m.match(path, true)
}

func (m *Matcher) match(path string, isDir bool) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	relPath, err := filepath.Rel(m.root, filepath.Clean(path))
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return false
	}

	parts := splitPath(filepath.ToSlash(relPath))
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	if path == "" || path == "." {
		return []string{}
	}

	path = strings.TrimPrefix(path, "/")
	parts := strings.Split(path, "/")

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
