/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package meta

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fulmenhq/coursekit/internal/actions"
	"github.com/fulmenhq/coursekit/internal/classify"
	"github.com/fulmenhq/coursekit/internal/discovery"
	"github.com/fulmenhq/coursekit/pkg/logger"
	"github.com/fulmenhq/coursekit/pkg/pathfinder"
	"github.com/fulmenhq/coursekit/pkg/safeio"
)

// ErrNotAFolder is returned when a single-folder target is missing or not a directory.
var ErrNotAFolder = errors.New("not an existing folder")

// Options select which folders a Run touches and how records are derived.
type Options struct {
	Section    string
	Path       string
	Assignment string
	Refresh    bool
	Prune      bool
	PrintOnly  bool
}

// Manager generates and refreshes metadata records.
type Manager struct {
	resolver *pathfinder.Resolver
	disc     *discovery.Discoverer
	cls      *classify.Classifier
	builder  *Builder
	out      io.Writer
}

// NewManager wires a Manager. Printed records go to out.
func NewManager(resolver *pathfinder.Resolver, disc *discovery.Discoverer, cls *classify.Classifier, builder *Builder, out io.Writer) *Manager {
	if out == nil {
		out = io.Discard
	}
	return &Manager{resolver: resolver, disc: disc, cls: cls, builder: builder, out: out}
}

// Run builds the record of every selected folder under contentRoot and hands
// it to w, or prints it when PrintOnly is set. It returns the folders visited.
func (m *Manager) Run(contentRoot string, w *actions.Writer, opts Options) ([]string, error) {
	folders, err := m.selectFolders(contentRoot, opts)
	if err != nil {
		return nil, err
	}

	for _, folder := range folders {
		rec, err := m.RecordFor(folder, BuildOptions{Refresh: opts.Refresh, Prune: opts.Prune})
		if err != nil {
			return nil, err
		}
		data := Serialize(rec)

		if opts.PrintOnly {
			if _, err := m.out.Write(data); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := w.Apply(actions.Write(m.metaPath(folder), string(data))); err != nil {
			return nil, err
		}
	}
	return folders, nil
}

func (m *Manager) selectFolders(contentRoot string, opts Options) ([]string, error) {
	if opts.Path != "" {
		target, err := m.resolver.Guard(contentRoot, opts.Path)
		if err != nil {
			return nil, err
		}
		if !m.resolver.IsDir(target) {
			return nil, fmt.Errorf("%w: %s", ErrNotAFolder, target)
		}
		return []string{target}, nil
	}

	sections, err := m.resolver.ResolveSections(contentRoot, opts.Section)
	if err != nil {
		return nil, err
	}
	candidates, err := m.disc.CandidateFolders(sections)
	if err != nil {
		return nil, err
	}

	folders := make([]string, len(candidates))
	for i, c := range candidates {
		folders[i] = c.Path
	}
	if opts.Assignment == "" || len(folders) == 0 {
		return folders, nil
	}

	one, err := SelectSingleAssignment(folders, opts.Assignment)
	if err != nil {
		return nil, err
	}
	return []string{one}, nil
}

// ReadExisting parses the folder's record, returning an empty record when none exists.
func (m *Manager) ReadExisting(folder string) (Record, error) {
	p := m.metaPath(folder)
	data, err := safeio.ReadFile(m.resolver.Filesystem(), p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, nil
		}
		return Record{}, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return Parse(data), nil
}

// RecordFor builds the record folder should carry now.
func (m *Manager) RecordFor(folder string, opts BuildOptions) (Record, error) {
	existing, err := m.ReadExisting(folder)
	if err != nil {
		return Record{}, err
	}

	role := m.cls.FolderRole(filepath.Base(folder))
	var current []string
	if role == classify.RoleResource {
		current, err = m.disc.ResourceFiles(folder)
	} else {
		current, err = m.disc.Notebooks(folder)
	}
	if err != nil {
		return Record{}, err
	}

	rec := m.builder.Build(filepath.Base(folder), role, existing, current, opts)
	logger.Debug("Built metadata record",
		logger.String("path", folder),
		logger.String("role", string(role)),
		logger.Bool("existing", existing.Title.Set || existing.CreatedAt.Set))
	return rec, nil
}

func (m *Manager) metaPath(folder string) string {
	return filepath.Join(folder, m.cls.Tables().MetaName)
}
