/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package actions

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/coursekit/pkg/config"
	"github.com/fulmenhq/coursekit/pkg/pathfinder"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/repo/Assignments"

func newWriter(t *testing.T, opts Options) (*Writer, billy.Filesystem, *bytes.Buffer) {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll(base+"/01-A/01-G", 0o755))
	guard := pathfinder.NewResolver(fs, config.DefaultTables(), pathfinder.WithWorkingDir("/repo"))
	out := &bytes.Buffer{}
	return NewWriter(fs, guard, base, out, opts), fs, out
}

func readString(t *testing.T, fs billy.Filesystem, p string) string {
	t.Helper()
	b, err := util.ReadFile(fs, p)
	require.NoError(t, err)
	return string(b)
}

func TestWriter_CreateIfAbsent(t *testing.T) {
	w, fs, out := newWriter(t, Options{})
	p := base + "/01-A/01-G/README.md"

	o, err := w.Apply(Write(p, "# G\n"))
	require.NoError(t, err)
	assert.Equal(t, Applied, o)
	assert.Equal(t, "# G\n", readString(t, fs, p))

	o, err = w.Apply(Write(p, "# changed\n"))
	require.NoError(t, err)
	assert.Equal(t, Kept, o)
	assert.Equal(t, "# G\n", readString(t, fs, p))

	assert.Equal(t, "[write] "+p+"\n", out.String())
	assert.Equal(t, Stats{Created: 1, Kept: 1}, w.Stats())
}

func TestWriter_Overwrite(t *testing.T) {
	w, fs, out := newWriter(t, Options{Overwrite: true})
	p := base + "/01-A/01-G/meta.yaml"
	require.NoError(t, util.WriteFile(fs, p, []byte("old"), 0o644))

	o, err := w.Apply(Write(p, "new"))
	require.NoError(t, err)
	assert.Equal(t, Applied, o)
	assert.Equal(t, "new", readString(t, fs, p))
	assert.Contains(t, out.String(), "[write] "+p)
	assert.Equal(t, 1, w.Stats().Overwrote)
}

func TestWriter_ShowExisting(t *testing.T) {
	w, fs, out := newWriter(t, Options{ShowExisting: true})
	p := base + "/01-A/01-G/_header.md"
	require.NoError(t, util.WriteFile(fs, p, nil, 0o644))

	_, err := w.Apply(Write(p, ""))
	require.NoError(t, err)
	assert.Equal(t, "[keep] "+p+"\n", out.String())
}

func TestWriter_SimulateNeverMutates(t *testing.T) {
	for _, overwrite := range []bool{false, true} {
		w, fs, out := newWriter(t, Options{Simulate: true, Overwrite: overwrite})
		existing := base + "/01-A/01-G/README.md"
		require.NoError(t, util.WriteFile(fs, existing, []byte("mine"), 0o644))
		nb := base + "/01-A/01-G/Quiz_1.ipynb"
		require.NoError(t, util.WriteFile(fs, nb, []byte("{}"), 0o644))

		err := w.ApplyAll([]Action{
			Mkdir(base + "/01-A/01-G/Lessons"),
			Write(base+"/01-A/01-G/Lessons/01-Intro/README.md", "x"),
			Write(existing, "theirs"),
			Move(nb, base+"/01-A/01-G/Assessments/Quiz_1.ipynb"),
		})
		require.NoError(t, err)

		assert.Equal(t, "mine", readString(t, fs, existing))
		_, err = fs.Stat(base + "/01-A/01-G/Lessons")
		assert.Error(t, err)
		_, err = fs.Stat(nb)
		assert.NoError(t, err)
		assert.Zero(t, w.Stats().Mutations())

		lines := out.String()
		assert.Contains(t, lines, "[dry-run] mkdir -p "+base+"/01-A/01-G/Lessons")
		assert.Contains(t, lines, "[dry-run] create "+base+"/01-A/01-G/Lessons/01-Intro/README.md")
		assert.Contains(t, lines, "[dry-run] move "+nb+" -> "+base+"/01-A/01-G/Assessments/Quiz_1.ipynb")
		if overwrite {
			assert.Contains(t, lines, "[dry-run] overwrite "+existing)
		} else {
			assert.NotContains(t, lines, "overwrite")
		}
	}
}

func TestWriter_Mkdir(t *testing.T) {
	w, fs, out := newWriter(t, Options{})
	dir := base + "/01-A/01-G/Lessons"

	o, err := w.Apply(Mkdir(dir))
	require.NoError(t, err)
	assert.Equal(t, Applied, o)
	st, err := fs.Stat(dir)
	require.NoError(t, err)
	assert.True(t, st.IsDir())

	o, err = w.Apply(Mkdir(dir))
	require.NoError(t, err)
	assert.Equal(t, Noop, o)
	assert.Equal(t, "[mkdir] "+dir+"\n", out.String())

	require.NoError(t, util.WriteFile(fs, base+"/01-A/01-G/Resources", nil, 0o644))
	_, err = w.Apply(Mkdir(base + "/01-A/01-G/Resources"))
	assert.Error(t, err)
}

func TestWriter_Move(t *testing.T) {
	w, fs, out := newWriter(t, Options{})
	src := base + "/01-A/01-G/Glossary.ipynb"
	dst := base + "/01-A/01-G/Resources/Glossary.ipynb"
	require.NoError(t, util.WriteFile(fs, src, []byte("{}"), 0o644))

	o, err := w.Apply(Move(src, dst))
	require.NoError(t, err)
	assert.Equal(t, Applied, o)
	assert.Equal(t, "{}", readString(t, fs, dst))
	_, err = fs.Stat(src)
	assert.Error(t, err)
	assert.Equal(t, "[move] "+src+" -> "+dst+"\n", out.String())
}

func TestWriter_MoveOntoExisting(t *testing.T) {
	w, fs, _ := newWriter(t, Options{})
	src := base + "/01-A/01-G/data.csv"
	dst := base + "/01-A/01-G/Resources/data.csv"
	require.NoError(t, util.WriteFile(fs, src, []byte("new"), 0o644))
	require.NoError(t, util.WriteFile(fs, dst, []byte("old"), 0o644))

	o, err := w.Apply(Move(src, dst))
	require.NoError(t, err)
	assert.Equal(t, Kept, o)
	assert.Equal(t, "old", readString(t, fs, dst))
	assert.Equal(t, "new", readString(t, fs, src))

	w2 := NewWriter(fs, nil, base, nil, Options{Overwrite: true})
	o, err = w2.Apply(Move(src, dst))
	require.NoError(t, err)
	assert.Equal(t, Applied, o)
	assert.Equal(t, "new", readString(t, fs, dst))
}

func TestWriter_GuardRefusesBeforeAnyWrite(t *testing.T) {
	w, fs, out := newWriter(t, Options{Overwrite: true})
	require.NoError(t, util.WriteFile(fs, "/repo/notes.ipynb", []byte("{}"), 0o644))

	tests := []Action{
		Write("/repo/README.md", "x"),
		Mkdir("/elsewhere/Lessons"),
		Move("/repo/notes.ipynb", base+"/01-A/01-G/notes.ipynb"),
		Move(base+"/01-A/01-G/x.ipynb", "/tmp/x.ipynb"),
		Write(base+"/../README.md", "x"),
	}
	for _, a := range tests {
		t.Run(a.String(), func(t *testing.T) {
			_, err := w.Apply(a)
			assert.ErrorIs(t, err, pathfinder.ErrOutsideRoot)
		})
	}

	_, err := fs.Stat("/repo/README.md")
	assert.Error(t, err)
	_, err = fs.Stat("/elsewhere")
	assert.Error(t, err)
	assert.Empty(t, out.String())
	assert.Zero(t, w.Stats().Mutations())
}

func TestKindAndOutcomeStrings(t *testing.T) {
	assert.Equal(t, "mkdir", KindMkdir.String())
	assert.Equal(t, "move a -> b", Move("a", "b").String())
	assert.Equal(t, "write p", Write("p", "").String())
	assert.Equal(t, "kept", Kept.String())
}

func TestWriter_Check(t *testing.T) {
	w, _, out := newWriter(t, Options{})

	rel, err := w.Check(base + "/01-A/01-G")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("01-A", "01-G"), rel)

	rel, err = w.Check(base)
	require.NoError(t, err)
	assert.Equal(t, ".", rel)

	_, err = w.Check("/repo/Drafts/01-G")
	assert.ErrorIs(t, err, pathfinder.ErrOutsideRoot)
	assert.Empty(t, out.String())

	unguarded := NewWriter(memfs.New(), nil, base, nil, Options{})
	rel, err = unguarded.Check(base + "/x/")
	require.NoError(t, err)
	assert.Equal(t, "x", rel)
}
