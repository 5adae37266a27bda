package config

import (
	"strings"
	"time"

	"github.com/fulmenhq/coursekit/pkg/logger"
)

// Tables is the immutable view of Config handed to the engine. Slices are
// copied on the way in and on the way out so no caller can mutate shared state.
type Tables struct {
	ContentDir     string
	LessonsDir     string
	AssessmentsDir string
	ResourcesDir   string
	IgnoreFile     string

	HeaderName  string
	AutogenName string
	ReadmeName  string
	MetaName    string

	NotebookExt string

	SchemaVersion int
	DefaultStatus string
	Location      *time.Location

	legacyDirs         []string
	assessmentKeywords []string
	resourceKeywords   []string
	resourceExtensions []string
	resourceGlobs      []string
}

// DefaultTables returns the tables for the built-in configuration
func DefaultTables() Tables {
	return Default().Tables()
}

// Tables builds the immutable engine tables from the configuration
func (c *Config) Tables() Tables {
	loc, err := time.LoadLocation(c.Meta.Timezone)
	if err != nil || c.Meta.Timezone == "" {
		if c.Meta.Timezone != "" {
			logger.Warn("Unknown time zone, using local time",
				logger.String("timezone", c.Meta.Timezone), logger.Err(err))
		}
		loc = time.Local
	}

	exts := make([]string, 0, len(c.Classify.ResourceExtensions))
	for _, e := range c.Classify.ResourceExtensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}

	notebookExt := c.Classify.NotebookExt
	if !strings.HasPrefix(notebookExt, ".") {
		notebookExt = "." + notebookExt
	}

	return Tables{
		ContentDir:         c.Layout.ContentDir,
		LessonsDir:         c.Layout.LessonsDir,
		AssessmentsDir:     c.Layout.AssessmentsDir,
		ResourcesDir:       c.Layout.ResourcesDir,
		IgnoreFile:         c.Layout.IgnoreFile,
		HeaderName:         c.Files.Header,
		AutogenName:        c.Files.Autogen,
		ReadmeName:         c.Files.Readme,
		MetaName:           c.Files.Meta,
		NotebookExt:        notebookExt,
		SchemaVersion:      c.Meta.SchemaVersion,
		DefaultStatus:      c.Meta.DefaultStatus,
		Location:           loc,
		legacyDirs:         cloneStrings(c.Layout.LegacyDirs),
		assessmentKeywords: cloneStrings(c.Classify.AssessmentKeywords),
		resourceKeywords:   cloneStrings(c.Classify.ResourceKeywords),
		resourceExtensions: exts,
		resourceGlobs:      cloneStrings(c.Classify.ResourceGlobs),
	}
}

// ReservedNames returns the four reserved filenames in a fixed order
func (t Tables) ReservedNames() []string {
	return []string{t.HeaderName, t.AutogenName, t.ReadmeName, t.MetaName}
}

// LegacyDirs returns the legacy container names
func (t Tables) LegacyDirs() []string { return cloneStrings(t.legacyDirs) }

// AssessmentKeywords returns the assessment keyword set
func (t Tables) AssessmentKeywords() []string { return cloneStrings(t.assessmentKeywords) }

// ResourceKeywords returns the resource keyword set
func (t Tables) ResourceKeywords() []string { return cloneStrings(t.resourceKeywords) }

// ResourceExtensions returns the lower-cased, dot-prefixed extension allow-list
func (t Tables) ResourceExtensions() []string { return cloneStrings(t.resourceExtensions) }

// ResourceGlobs returns the extra doublestar patterns for resource artifacts
func (t Tables) ResourceGlobs() []string { return cloneStrings(t.resourceGlobs) }

// WithResourceExtensions returns a copy of t using exts as the allow-list.
func (t Tables) WithResourceExtensions(exts ...string) Tables {
	t.resourceExtensions = nil
	for _, e := range exts {
		t.resourceExtensions = append(t.resourceExtensions, strings.ToLower(e))
	}
	return t
}

// WithKeywords returns a copy of t using the given keyword sets.
func (t Tables) WithKeywords(assessment, resource []string) Tables {
	t.assessmentKeywords = cloneStrings(assessment)
	t.resourceKeywords = cloneStrings(resource)
	return t
}

// WithLegacyDirs returns a copy of t using dirs as legacy container names.
func (t Tables) WithLegacyDirs(dirs ...string) Tables {
	t.legacyDirs = cloneStrings(dirs)
	return t
}

// WithResourceGlobs returns a copy of t using globs as extra resource patterns.
func (t Tables) WithResourceGlobs(globs ...string) Tables {
	t.resourceGlobs = cloneStrings(globs)
	return t
}
