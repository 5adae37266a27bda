/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package classify decides which semantic role a folder or file plays in the
// course layout. Every function here is total and side-effect free: it looks
// only at names, never at directory contents.
package classify

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/coursekit/pkg/config"
)

// Role is the metadata type of an atomic content folder.
type Role string

const (
	RoleAssignment Role = "assignment"
	RoleAssessment Role = "assessment"
	RoleResource   Role = "resource"
)

// NotebookKind is the routing decision for a loose notebook.
type NotebookKind string

const (
	KindLesson     NotebookKind = "lesson"
	KindAssessment NotebookKind = "assessment"
	KindResource   NotebookKind = "resource"
)

var numberedName = regexp.MustCompile(`^([0-9]{2})-(.+)$`)

// IsWellFormedName reports whether name is two ASCII digits, a dash and a
// non-empty remainder.
func IsWellFormedName(name string) bool {
	return numberedName.MatchString(name)
}

// SplitNumbered returns the numeric prefix and remainder of a well-formed name.
func SplitNumbered(name string) (int, string, bool) {
	m := numberedName.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, m[2], true
}

// IsHidden reports whether a single path segment is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Tokenize splits s into lower-case alphanumeric runs.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

// Classifier applies the injected tables to names.
type Classifier struct {
	tables      config.Tables
	assessment  [][]string
	resource    [][]string
	reserved    map[string]struct{}
	legacy      map[string]struct{}
	resourceExt map[string]struct{}
	globs       []string
}

// New builds a Classifier from immutable tables.
func New(tables config.Tables) *Classifier {
	c := &Classifier{
		tables:      tables,
		assessment:  keywordTokens(tables.AssessmentKeywords()),
		resource:    keywordTokens(tables.ResourceKeywords()),
		reserved:    make(map[string]struct{}),
		legacy:      make(map[string]struct{}),
		resourceExt: make(map[string]struct{}),
		globs:       tables.ResourceGlobs(),
	}
	for _, n := range tables.ReservedNames() {
		c.reserved[n] = struct{}{}
	}
	for _, n := range tables.LegacyDirs() {
		c.legacy[strings.ToLower(n)] = struct{}{}
	}
	for _, e := range tables.ResourceExtensions() {
		c.resourceExt[e] = struct{}{}
	}
	return c
}

// Tables returns the tables the classifier was built from.
func (c *Classifier) Tables() config.Tables { return c.tables }

func keywordTokens(keywords []string) [][]string {
	out := make([][]string, 0, len(keywords))
	for _, k := range keywords {
		if toks := Tokenize(k); len(toks) > 0 {
			out = append(out, toks)
		}
	}
	return out
}

// FolderRole derives the metadata role from the folder's own name.
func (c *Classifier) FolderRole(name string) Role {
	switch {
	case strings.EqualFold(name, c.tables.AssessmentsDir):
		return RoleAssessment
	case strings.EqualFold(name, c.tables.ResourcesDir):
		return RoleResource
	default:
		return RoleAssignment
	}
}

// NotebookStem routes a notebook by the keywords in its filename stem.
// Assessment keywords win over resource keywords.
func (c *Classifier) NotebookStem(stem string) NotebookKind {
	tokens := Tokenize(stem)
	if containsAny(tokens, c.assessment) {
		return KindAssessment
	}
	if containsAny(tokens, c.resource) {
		return KindResource
	}
	return KindLesson
}

// containsAny reports whether any keyword token sequence occurs contiguously in tokens.
func containsAny(tokens []string, keywords [][]string) bool {
	for _, kw := range keywords {
		for i := 0; i+len(kw) <= len(tokens); i++ {
			match := true
			for j := range kw {
				if tokens[i+j] != kw[j] {
					match = false
					break
				}
			}
			if match {
				return true
			}
		}
	}
	return false
}

// IsNotebook reports whether name carries the notebook extension.
func (c *Classifier) IsNotebook(name string) bool {
	return strings.EqualFold(path.Ext(name), c.tables.NotebookExt)
}

// NotebookStemOf strips the notebook extension from name.
func (c *Classifier) NotebookStemOf(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// IsReserved reports whether name is one of the four reserved filenames.
func (c *Classifier) IsReserved(name string) bool {
	_, ok := c.reserved[name]
	return ok
}

// IsLegacy reports whether a single path segment names a legacy container.
func (c *Classifier) IsLegacy(name string) bool {
	_, ok := c.legacy[strings.ToLower(name)]
	return ok
}

// IsExcludedSegment reports whether a path segment removes a folder, and
// everything below it, from discovery.
func (c *Classifier) IsExcludedSegment(name string) bool {
	return IsHidden(name) || c.IsLegacy(name)
}

// IsResourceArtifact reports whether a regular file named name is course
// material by extension or by one of the configured globs. Callers exclude
// reserved names before asking.
func (c *Classifier) IsResourceArtifact(name string, regular bool) bool {
	if !regular {
		return false
	}
	if _, ok := c.resourceExt[strings.ToLower(path.Ext(name))]; ok {
		return true
	}
	for _, g := range c.globs {
		if ok, err := doublestar.Match(g, name); err == nil && ok {
			return true
		}
	}
	return false
}
