/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package discovery enumerates the folders of a course tree that need
// scaffolding or a metadata record.
package discovery

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"

	"github.com/fulmenhq/coursekit/internal/classify"
	"github.com/fulmenhq/coursekit/pkg/ignore"
	"github.com/fulmenhq/coursekit/pkg/logger"
	"github.com/fulmenhq/coursekit/pkg/pathfinder"
	billy "github.com/go-git/go-billy/v5"
)

// Folder describes one directory yielded by Walk.
type Folder struct {
	Path string
	Name string
	// Depth is 1 for direct children of the walk root.
	Depth int
}

// Candidate is a folder that qualifies for a metadata record.
type Candidate struct {
	Path string
	Role classify.Role
}

// Discoverer reads the tree through the resolver's filesystem.
type Discoverer struct {
	fs       billy.Filesystem
	resolver *pathfinder.Resolver
	cls      *classify.Classifier
	ignore   *ignore.Matcher
}

// Option configures a Discoverer
type Option func(*Discoverer)

// WithIgnore prunes folders matched by m from every walk.
func WithIgnore(m *ignore.Matcher) Option {
	return func(d *Discoverer) { d.ignore = m }
}

// New creates a Discoverer.
func New(resolver *pathfinder.Resolver, cls *classify.Classifier, opts ...Option) *Discoverer {
	d := &Discoverer{
		fs:       resolver.Filesystem(),
		resolver: resolver,
		cls:      cls,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Walk yields every folder strictly below root, depth-first in name order.
// A folder whose name is hidden, a legacy container, or ignored is skipped
// together with everything beneath it. Symlinked directories are not entered.
// The sequence re-reads the tree each time it is ranged over.
func (d *Discoverer) Walk(root string) iter.Seq2[Folder, error] {
	return func(yield func(Folder, error) bool) {
		stack, err := d.childDirs(root, 0)
		if err != nil {
			yield(Folder{Path: root, Name: filepath.Base(root)}, err)
			return
		}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(f, nil) {
				return
			}

			children, err := d.childDirs(f.Path, f.Depth)
			if err != nil {
				if !yield(f, err) {
					return
				}
				continue
			}
			stack = append(stack, children...)
		}
	}
}

// childDirs returns the walkable subdirectories of dir in reverse name order,
// ready to be pushed onto the walk stack.
func (d *Discoverer) childDirs(dir string, depth int) ([]Folder, error) {
	infos, err := d.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var out []Folder
	for _, fi := range infos {
		if !fi.IsDir() {
			continue
		}
		name := fi.Name()
		full := filepath.Join(dir, name)
		switch {
		case d.cls.IsExcludedSegment(name):
			if !classify.IsHidden(name) {
				logger.Debug("Skipping legacy container", logger.String("path", full))
			}
			continue
		case d.ignore.IsIgnoredDir(full):
			logger.Debug("Skipping ignored folder", logger.String("path", full))
			continue
		}
		out = append(out, Folder{Path: full, Name: name, Depth: depth + 1})
	}

	slices.SortFunc(out, func(a, b Folder) int {
		switch {
		case a.Name > b.Name:
			return -1
		case a.Name < b.Name:
			return 1
		}
		return 0
	})
	return out, nil
}

// files returns the names of regular files directly inside dir, sorted.
// Symlinks count when they point at a regular file; ignored files do not.
func (d *Discoverer) files(dir string) ([]string, error) {
	infos, err := d.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var out []string
	for _, fi := range infos {
		if fi.IsDir() || d.ignore.IsIgnored(filepath.Join(dir, fi.Name())) {
			continue
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			st, err := d.fs.Stat(filepath.Join(dir, fi.Name()))
			if err != nil || !st.Mode().IsRegular() {
				continue
			}
		} else if !fi.Mode().IsRegular() {
			continue
		}
		out = append(out, fi.Name())
	}
	slices.Sort(out)
	return out, nil
}

// Notebooks lists notebook filenames directly inside dir, sorted.
func (d *Discoverer) Notebooks(dir string) ([]string, error) {
	names, err := d.files(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		if d.cls.IsNotebook(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// ResourceFiles lists resource artifacts directly inside dir, sorted.
// Reserved names and notebooks are never included.
func (d *Discoverer) ResourceFiles(dir string) ([]string, error) {
	names, err := d.files(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		if d.cls.IsReserved(n) || d.cls.IsNotebook(n) {
			continue
		}
		if d.cls.IsResourceArtifact(n, true) {
			out = append(out, n)
		}
	}
	return out, nil
}

// RootNotebooks returns the absolute paths of notebooks directly at the group root.
func (d *Discoverer) RootNotebooks(group string) ([]string, error) {
	names, err := d.Notebooks(group)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(group, n)
	}
	return out, nil
}

// IsProtoGroup reports whether at least one notebook sits directly at the group root.
func (d *Discoverer) IsProtoGroup(group string) (bool, error) {
	nbs, err := d.Notebooks(group)
	if err != nil {
		return false, err
	}
	return len(nbs) > 0, nil
}

// Groups lists the groups of every section, in section then group order.
func (d *Discoverer) Groups(sections []string) ([]string, error) {
	var out []string
	for _, sec := range sections {
		groups, err := d.resolver.ListGroups(sec)
		if err != nil {
			return nil, err
		}
		out = append(out, groups...)
	}
	return out, nil
}

// ProtoGroups returns the groups of the given sections that are in proto state.
func (d *Discoverer) ProtoGroups(sections []string) ([]string, error) {
	groups, err := d.Groups(sections)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, g := range groups {
		if d.ignore.IsIgnoredDir(g) {
			continue
		}
		proto, err := d.IsProtoGroup(g)
		if err != nil {
			return nil, err
		}
		if proto {
			out = append(out, g)
		}
	}
	return out, nil
}

// ShouldHaveMeta decides whether dir qualifies for a metadata record and returns its role.
// Assessment folders always qualify, resource folders need a resource artifact or
// notebook, and everything else needs a notebook.
func (d *Discoverer) ShouldHaveMeta(dir string) (classify.Role, bool, error) {
	role := d.cls.FolderRole(filepath.Base(dir))
	switch role {
	case classify.RoleAssessment:
		return role, true, nil
	case classify.RoleResource:
		files, err := d.ResourceFiles(dir)
		if err != nil {
			return role, false, err
		}
		if len(files) > 0 {
			return role, true, nil
		}
	}
	nbs, err := d.Notebooks(dir)
	if err != nil {
		return role, false, err
	}
	return role, len(nbs) > 0, nil
}

// CandidateFolders walks the given sections and returns every folder that
// should carry a metadata record, in walk order.
func (d *Discoverer) CandidateFolders(sections []string) ([]Candidate, error) {
	var out []Candidate
	for _, sec := range sections {
		logger.Debug("Scanning section", logger.String("section", sec))
		for f, err := range d.Walk(sec) {
			if err != nil {
				return nil, err
			}
			role, ok, err := d.ShouldHaveMeta(f.Path)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			logger.Debug("Found metadata candidate", logger.String("role", string(role)), logger.String("path", f.Path))
			out = append(out, Candidate{Path: f.Path, Role: role})
		}
	}
	return out, nil
}
