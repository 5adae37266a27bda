// Package pathfinder resolves user-supplied roots and identifiers to concrete
// folders of a course repository and guards every target against escaping
// the content container.
package pathfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fulmenhq/coursekit/internal/classify"
	"github.com/fulmenhq/coursekit/pkg/config"
	"github.com/fulmenhq/coursekit/pkg/logger"
	billy "github.com/go-git/go-billy/v5"
)

// Resolver performs root, container, section and group resolution on a filesystem.
type Resolver struct {
	fs      billy.Filesystem
	tables  config.Tables
	getwd   func() (string, error)
	homeDir func() (string, error)
}

// Option configures a Resolver
type Option func(*Resolver)

// WithWorkingDir pins the directory relative inputs are resolved against.
func WithWorkingDir(dir string) Option {
	return func(r *Resolver) {
		r.getwd = func() (string, error) { return dir, nil }
	}
}

// WithHomeDir pins the directory "~" expands to.
func WithHomeDir(dir string) Option {
	return func(r *Resolver) {
		r.homeDir = func() (string, error) { return dir, nil }
	}
}

// NewResolver creates a resolver over fs. Relative paths resolve against the
// process working directory unless WithWorkingDir is given.
func NewResolver(fs billy.Filesystem, tables config.Tables, opts ...Option) *Resolver {
	r := &Resolver{
		fs:      fs,
		tables:  tables,
		getwd:   os.Getwd,
		homeDir: os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Filesystem returns the filesystem the resolver reads from.
func (r *Resolver) Filesystem() billy.Filesystem { return r.fs }

// ResolveRoot expands "~", anchors relative input at the working directory and
// follows symlinks. The result is absolute; existence is not checked.
func (r *Resolver) ResolveRoot(input string) (string, error) {
	p := strings.TrimSpace(input)
	if p == "" {
		p = "."
	}

	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := r.homeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		p = filepath.Join(home, p[1:])
	}

	if !filepath.IsAbs(p) {
		wd, err := r.getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		p = filepath.Join(wd, p)
	}

	return canonical(r.fs, p)
}

// ResolveContentRoot accepts the repository root or the content container itself.
func (r *Resolver) ResolveContentRoot(root string) (string, error) {
	root, err := r.ResolveRoot(root)
	if err != nil {
		return "", err
	}

	if filepath.Base(root) == r.tables.ContentDir && r.isDir(root) {
		return root, nil
	}

	content := filepath.Join(root, r.tables.ContentDir)
	if !r.isDir(content) {
		return "", fmt.Errorf("%w: %s/ folder not found under %s", ErrMissingContainer, r.tables.ContentDir, root)
	}
	return content, nil
}

// ListSections returns the sections of contentRoot as sorted absolute paths.
func (r *Resolver) ListSections(contentRoot string) ([]string, error) {
	return r.numberedChildren(contentRoot)
}

// ListGroups returns the groups of a section as sorted absolute paths.
func (r *Resolver) ListGroups(section string) ([]string, error) {
	return r.numberedChildren(section)
}

// ResolveSections resolves a section query. An empty query selects all sections.
func (r *Resolver) ResolveSections(contentRoot, query string) ([]string, error) {
	sections, err := r.ListSections(contentRoot)
	if err != nil {
		return nil, err
	}
	return resolveIn("section", contentRoot, sections, query)
}

// ResolveGroups resolves a group query inside one section with the same
// precedence rules as sections.
func (r *Resolver) ResolveGroups(section, query string) ([]string, error) {
	groups, err := r.ListGroups(section)
	if err != nil {
		return nil, err
	}
	return resolveIn("group", section, groups, query)
}

func resolveIn(subject, dir string, paths []string, query string) ([]string, error) {
	names := make([]string, len(paths))
	byName := make(map[string]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
		byName[names[i]] = p
	}

	matched, err := Match(subject, names, query)
	if err != nil {
		var rerr *ResolutionError
		if errors.As(err, &rerr) {
			rerr.Dir = dir
		}
		return nil, err
	}

	out := make([]string, len(matched))
	for i, n := range matched {
		out[i] = byName[n]
	}
	if strings.TrimSpace(query) != "" {
		logger.Debug("Resolved "+subject, logger.String("query", query), logger.Strings("matches", matched))
	}
	return out, nil
}

// numberedChildren lists well-formed, non-hidden directories directly under dir.
func (r *Resolver) numberedChildren(dir string) ([]string, error) {
	infos, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var out []string
	for _, fi := range infos {
		name := fi.Name()
		if classify.IsHidden(name) || !classify.IsWellFormedName(name) {
			continue
		}
		full := filepath.Join(dir, name)
		if !fi.IsDir() && !(fi.Mode()&os.ModeSymlink != 0 && r.isDir(full)) {
			continue
		}
		out = append(out, full)
	}
	sort.Strings(out)
	return out, nil
}

func (r *Resolver) isDir(p string) bool {
	st, err := r.fs.Stat(p)
	return err == nil && st.IsDir()
}

// IsDir reports whether p exists on the resolver's filesystem and is a directory.
func (r *Resolver) IsDir(p string) bool { return r.isDir(p) }
