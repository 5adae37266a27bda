/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package scaffold turns proto groups, groups with loose notebooks at their
// root, into the canonical Lessons/Assessments/Resources layout.
package scaffold

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/fulmenhq/coursekit/internal/actions"
	"github.com/fulmenhq/coursekit/internal/assets"
	"github.com/fulmenhq/coursekit/internal/classify"
	"github.com/fulmenhq/coursekit/internal/discovery"
	"github.com/fulmenhq/coursekit/internal/meta"
	"github.com/fulmenhq/coursekit/pkg/config"
	"github.com/fulmenhq/coursekit/pkg/logger"
	billy "github.com/go-git/go-billy/v5"
)

// Options control a single explode.
type Options struct {
	// MoveArtifacts relocates root-level resource artifacts into Resources/.
	MoveArtifacts bool
}

// Engine plans and applies scaffolding for one group at a time.
type Engine struct {
	fs      billy.Filesystem
	disc    *discovery.Discoverer
	cls     *classify.Classifier
	tables  config.Tables
	builder *meta.Builder

	groupReadme     *raymond.Template
	lessonReadme    *raymond.Template
	containerReadme *raymond.Template
}

// NewEngine parses the embedded README templates and returns an Engine.
func NewEngine(fs billy.Filesystem, disc *discovery.Discoverer, cls *classify.Classifier, builder *meta.Builder) (*Engine, error) {
	e := &Engine{
		fs:      fs,
		disc:    disc,
		cls:     cls,
		tables:  cls.Tables(),
		builder: builder,
	}

	for path, dst := range map[string]**raymond.Template{
		assets.GroupReadmeTemplate:     &e.groupReadme,
		assets.LessonReadmeTemplate:    &e.lessonReadme,
		assets.ContainerReadmeTemplate: &e.containerReadme,
	} {
		src, err := assets.GetTemplate(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", path, err)
		}
		tpl, err := raymond.Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
		}
		*dst = tpl
	}
	return e, nil
}

func render(tpl *raymond.Template, title string) (string, error) {
	return tpl.Exec(map[string]interface{}{"title": title})
}

// ErrNotAGroup is returned when a folder does not sit at group depth.
var ErrNotAGroup = errors.New("not a group folder")

// ExplodeGroup guards group against the writer's base, plans it and applies
// the plan. The group must be a well-formed folder inside a well-formed
// section directly below the base. A refused group performs no action at all.
func (e *Engine) ExplodeGroup(group string, w *actions.Writer, opts Options) error {
	rel, err := w.Check(group)
	if err != nil {
		return err
	}
	if !isGroupPath(rel) {
		return fmt.Errorf("%w: %s (expected <section>/<group> inside the content folder)", ErrNotAGroup, group)
	}
	plan, err := e.Plan(group, opts)
	if err != nil {
		return err
	}
	logger.Debug("Planned group", logger.String("group", group), logger.Int("actions", len(plan)))
	return w.ApplyAll(plan)
}

func isGroupPath(rel string) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	return len(parts) == 2 && classify.IsWellFormedName(parts[0]) && classify.IsWellFormedName(parts[1])
}

// Plan computes every action needed to bring group into canonical shape
// without touching the filesystem. Lesson numbers allocated earlier in the
// plan are taken into account so a simulated run names folders exactly as
// a real one would.
func (e *Engine) Plan(group string, opts Options) ([]actions.Action, error) {
	st, err := e.fs.Stat(group)
	if err != nil {
		return nil, fmt.Errorf("cannot scaffold %s: %w", group, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("cannot scaffold %s: not a directory", group)
	}

	t := e.tables
	lessons := filepath.Join(group, t.LessonsDir)
	assessments := filepath.Join(group, t.AssessmentsDir)
	resources := filepath.Join(group, t.ResourcesDir)

	var plan []actions.Action
	add := func(a ...actions.Action) { plan = append(plan, a...) }

	groupReadme, err := render(e.groupReadme, GroupTitle(filepath.Base(group)))
	if err != nil {
		return nil, err
	}
	add(
		actions.Write(filepath.Join(group, t.AutogenName), ""),
		actions.Write(filepath.Join(group, t.HeaderName), ""),
		actions.Write(filepath.Join(group, t.ReadmeName), groupReadme),
		actions.Mkdir(lessons),
		actions.Mkdir(assessments),
		actions.Mkdir(resources),
	)

	for _, c := range []struct {
		dir   string
		title string
		role  classify.Role
	}{
		{assessments, t.AssessmentsDir, classify.RoleAssessment},
		{resources, t.ResourcesDir, classify.RoleResource},
	} {
		readme, err := render(e.containerReadme, c.title)
		if err != nil {
			return nil, err
		}
		add(
			actions.Write(filepath.Join(c.dir, t.AutogenName), ""),
			actions.Write(filepath.Join(c.dir, t.HeaderName), ""),
			actions.Write(filepath.Join(c.dir, t.ReadmeName), readme),
			actions.Write(filepath.Join(c.dir, t.MetaName), string(meta.Serialize(e.builder.Default(c.title, c.role, nil)))),
		)
	}

	notebooks, err := e.disc.RootNotebooks(group)
	if err != nil {
		return nil, err
	}
	next := 0
	for _, nb := range notebooks {
		name := filepath.Base(nb)
		kind := e.cls.NotebookStem(e.cls.NotebookStemOf(name))
		logger.Debug("Routing notebook", logger.String("notebook", nb), logger.String("kind", string(kind)))

		switch kind {
		case classify.KindAssessment:
			add(actions.Move(nb, filepath.Join(assessments, name)))
		case classify.KindResource:
			add(actions.Move(nb, filepath.Join(resources, name)))
		default:
			if next == 0 {
				if next, err = NextAtomicNumber(e.fs, lessons); err != nil {
					return nil, err
				}
			}
			lesson, err := e.planLesson(lessons, next, nb)
			if err != nil {
				return nil, err
			}
			add(lesson...)
			next++
		}
	}

	if opts.MoveArtifacts {
		artifacts, err := e.disc.ResourceFiles(group)
		if err != nil {
			return nil, err
		}
		for _, name := range artifacts {
			add(actions.Move(filepath.Join(group, name), filepath.Join(resources, name)))
		}
	}
	return plan, nil
}

// planLesson allocates lesson folder number n for notebook nb.
func (e *Engine) planLesson(lessons string, n int, nb string) ([]actions.Action, error) {
	t := e.tables
	name := filepath.Base(nb)
	slug := SlugTitle(e.cls.NotebookStemOf(name))
	folderName, err := LessonFolderName(n, slug)
	if err != nil {
		return nil, err
	}
	folder := filepath.Join(lessons, folderName)
	title := Humanize(slug)

	readme, err := render(e.lessonReadme, title)
	if err != nil {
		return nil, err
	}
	record := e.builder.Default(title, classify.RoleAssignment, []string{name})

	return []actions.Action{
		actions.Mkdir(folder),
		actions.Write(filepath.Join(folder, t.AutogenName), ""),
		actions.Write(filepath.Join(folder, t.HeaderName), ""),
		actions.Write(filepath.Join(folder, t.ReadmeName), readme),
		actions.Write(filepath.Join(folder, t.MetaName), string(meta.Serialize(record))),
		actions.Move(nb, filepath.Join(folder, name)),
	}, nil
}
