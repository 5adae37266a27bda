/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package discovery

import (
	"testing"

	"github.com/fulmenhq/coursekit/internal/classify"
	"github.com/fulmenhq/coursekit/pkg/config"
	"github.com/fulmenhq/coursekit/pkg/ignore"
	"github.com/fulmenhq/coursekit/pkg/pathfinder"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const content = "/repo/Assignments"

func buildTree(t *testing.T, dirs []string, files []string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(content+"/"+d, 0o755))
	}
	for _, f := range files {
		require.NoError(t, util.WriteFile(fs, content+"/"+f, []byte("x"), 0o644))
	}
	return fs
}

func newDiscoverer(fs billy.Filesystem, opts ...Option) *Discoverer {
	tables := config.DefaultTables()
	return New(pathfinder.NewResolver(fs, tables), classify.New(tables), opts...)
}

func TestWalk_OrderAndExclusions(t *testing.T) {
	fs := buildTree(t, []string{
		"01-A/02-G/Lessons/01-Intro",
		"01-A/01-G/Resources",
		"01-A/01-G/Assessments",
		"01-A/01-G/.ipynb_checkpoints",
		"01-A/01-G/notebooks/old",
		"01-A/01-G/Notebooks/older",
		"01-A/.git/objects",
	}, nil)
	d := newDiscoverer(fs)

	var got []string
	for f, err := range d.Walk(content + "/01-A") {
		require.NoError(t, err)
		got = append(got, f.Path)
	}

	assert.Equal(t, []string{
		content + "/01-A/01-G",
		content + "/01-A/01-G/Assessments",
		content + "/01-A/01-G/Resources",
		content + "/01-A/02-G",
		content + "/01-A/02-G/Lessons",
		content + "/01-A/02-G/Lessons/01-Intro",
	}, got)
}

func TestWalk_Restartable(t *testing.T) {
	fs := buildTree(t, []string{"01-A/01-G", "01-A/02-G"}, nil)
	d := newDiscoverer(fs)
	seq := d.Walk(content + "/01-A")

	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 2, count())
	require.NoError(t, fs.MkdirAll(content+"/01-A/03-G", 0o755))
	assert.Equal(t, 3, count())
}

func TestWalk_EarlyStop(t *testing.T) {
	fs := buildTree(t, []string{"01-A/01-G", "01-A/02-G", "01-A/03-G"}, nil)
	d := newDiscoverer(fs)
	var first string
	for f := range d.Walk(content + "/01-A") {
		first = f.Name
		break
	}
	assert.Equal(t, "01-G", first)
}

func TestWalk_MissingRoot(t *testing.T) {
	d := newDiscoverer(memfs.New())
	for _, err := range d.Walk("/nowhere") {
		assert.Error(t, err)
	}
}

func TestWalk_IgnoreFile(t *testing.T) {
	fs := buildTree(t, []string{"01-A/01-G/Drafts", "01-A/02-G"}, nil)
	require.NoError(t, util.WriteFile(fs, "/repo/.courseignore", []byte("Drafts/\n"), 0o644))
	m, err := ignore.NewMatcher(fs, "/repo", ".courseignore")
	require.NoError(t, err)
	d := newDiscoverer(fs, WithIgnore(m))

	var got []string
	for f, err := range d.Walk(content + "/01-A") {
		require.NoError(t, err)
		got = append(got, f.Name)
	}
	assert.Equal(t, []string{"01-G", "02-G"}, got)
}

func TestFiles_IgnoredFilesAreSkipped(t *testing.T) {
	fs := buildTree(t, nil, []string{
		"01-A/01-G/Intro.ipynb",
		"01-A/01-G/scratch-1.ipynb",
		"01-A/01-G/roads.csv",
		"01-A/01-G/draft-roads.csv",
		"01-A/02-G/scratch-2.ipynb",
	})
	require.NoError(t, util.WriteFile(fs, "/repo/.courseignore", []byte("scratch-*.ipynb\ndraft-*\n"), 0o644))
	m, err := ignore.NewMatcher(fs, "/repo", ".courseignore")
	require.NoError(t, err)
	d := newDiscoverer(fs, WithIgnore(m))

	nbs, err := d.Notebooks(content + "/01-A/01-G")
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro.ipynb"}, nbs)

	files, err := d.ResourceFiles(content + "/01-A/01-G")
	require.NoError(t, err)
	assert.Equal(t, []string{"roads.csv"}, files)

	proto, err := d.IsProtoGroup(content + "/01-A/02-G")
	require.NoError(t, err)
	assert.False(t, proto)
}

func TestNotebooksAndResourceFiles(t *testing.T) {
	fs := buildTree(t, []string{"01-A/01-G/Resources/sub.csv"}, []string{
		"01-A/01-G/Resources/Glossary.ipynb",
		"01-A/01-G/Resources/data.CSV",
		"01-A/01-G/Resources/README.md",
		"01-A/01-G/Resources/meta.yaml",
		"01-A/01-G/Resources/notes.md",
		"01-A/01-G/Resources/script.py",
	})
	d := newDiscoverer(fs)
	dir := content + "/01-A/01-G/Resources"

	nbs, err := d.Notebooks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Glossary.ipynb"}, nbs)

	files, err := d.ResourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"data.CSV", "notes.md"}, files)
}

func TestIsProtoGroup(t *testing.T) {
	fs := buildTree(t, []string{"01-A/01-G/Lessons/01-Intro", "01-A/02-G"}, []string{
		"01-A/01-G/Lessons/01-Intro/Intro.ipynb",
		"01-A/02-G/Quiz_1.ipynb",
	})
	d := newDiscoverer(fs)

	proto, err := d.IsProtoGroup(content + "/01-A/01-G")
	require.NoError(t, err)
	assert.False(t, proto, "nested notebooks do not make a proto group")

	proto, err = d.IsProtoGroup(content + "/01-A/02-G")
	require.NoError(t, err)
	assert.True(t, proto)

	groups, err := d.ProtoGroups([]string{content + "/01-A"})
	require.NoError(t, err)
	assert.Equal(t, []string{content + "/01-A/02-G"}, groups)

	nbs, err := d.RootNotebooks(content + "/01-A/02-G")
	require.NoError(t, err)
	assert.Equal(t, []string{content + "/01-A/02-G/Quiz_1.ipynb"}, nbs)
}

func TestShouldHaveMeta(t *testing.T) {
	fs := buildTree(t, []string{
		"01-A/01-G/Assessments",
		"01-A/01-G/Resources",
		"01-A/02-G/Resources",
		"01-A/02-G/Lessons/01-Empty",
		"01-A/02-G/Lessons/02-Full",
	}, []string{
		"01-A/02-G/Resources/map.geojson",
		"01-A/02-G/Lessons/02-Full/Full.ipynb",
		"01-A/01-G/Resources/README.md",
	})
	d := newDiscoverer(fs)

	tests := []struct {
		dir  string
		role classify.Role
		want bool
	}{
		{"01-A/01-G/Assessments", classify.RoleAssessment, true},
		{"01-A/01-G/Resources", classify.RoleResource, false},
		{"01-A/02-G/Resources", classify.RoleResource, true},
		{"01-A/02-G/Lessons/01-Empty", classify.RoleAssignment, false},
		{"01-A/02-G/Lessons/02-Full", classify.RoleAssignment, true},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			role, ok, err := d.ShouldHaveMeta(content + "/" + tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.role, role)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCandidateFolders(t *testing.T) {
	fs := buildTree(t, []string{
		"01-A/01-G/Assessments",
		"01-A/01-G/Lessons/01-Intro",
		"01-A/01-G/notebooks/Assessments",
		"01-A/01-G/.hidden/Assessments",
		"02-B/01-G/Assessments",
	}, []string{
		"01-A/01-G/Lessons/01-Intro/Intro.ipynb",
	})
	d := newDiscoverer(fs)

	got, err := d.CandidateFolders([]string{content + "/01-A"})
	require.NoError(t, err)
	assert.Equal(t, []Candidate{
		{Path: content + "/01-A/01-G/Assessments", Role: classify.RoleAssessment},
		{Path: content + "/01-A/01-G/Lessons/01-Intro", Role: classify.RoleAssignment},
	}, got)
}
