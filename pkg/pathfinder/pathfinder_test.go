package pathfinder

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/coursekit/pkg/config"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, dirs ...string) *Resolver {
	t.Helper()
	fs := memfs.New()
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(d, 0o755))
	}
	return NewResolver(fs, config.DefaultTables(), WithWorkingDir("/work"), WithHomeDir("/home/alice"))
}

func TestMatch_Precedence(t *testing.T) {
	names := []string{"02-Alpha", "12-Beta", "13-Beta_Review"}

	tests := []struct {
		name    string
		query   string
		want    []string
		wantErr error
	}{
		{"empty query selects all", "", names, nil},
		{"two digits select prefix", "02", []string{"02-Alpha"}, nil},
		{"two digits do not substring-match 12", "12", []string{"12-Beta"}, nil},
		{"exact wins over substring", "12-Beta", []string{"12-Beta"}, nil},
		{"unique substring", "alpha", []string{"02-Alpha"}, nil},
		{"ambiguous substring", "beta", nil, ErrAmbiguous},
		{"nothing matches", "gamma", nil, ErrNotFound},
		{"unknown number falls through", "99", nil, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match("section", names, tt.query)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_AmbiguousNamesCandidates(t *testing.T) {
	_, err := Match("section", []string{"02-Alpha", "12-Beta", "13-Beta_Review"}, "beta")
	var rerr *ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, []string{"12-Beta", "13-Beta_Review"}, rerr.Candidates)
	assert.Contains(t, err.Error(), "12-Beta")
	assert.Contains(t, err.Error(), "13-Beta_Review")
}

func TestMatch_DuplicateNumberIsAmbiguous(t *testing.T) {
	_, err := Match("group", []string{"03-Maps", "03-Rasters"}, "03")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestResolveRoot(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		input string
		want  string
	}{
		{"", "/work"},
		{".", "/work"},
		{"course", "/work/course"},
		{"../other", "/other"},
		{"~", "/home/alice"},
		{"~/course", "/home/alice/course"},
		{"/abs/course/", "/abs/course"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.ResolveRoot(tt.input)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestResolveRoot_FollowsSymlinks(t *testing.T) {
	r := newTestResolver(t, "/data/course/Assignments")
	require.NoError(t, r.Filesystem().Symlink("/data/course", "/work/course"))

	got, err := r.ResolveRoot("course")
	require.NoError(t, err)
	assert.Equal(t, "/data/course", got)
}

func TestResolveContentRoot(t *testing.T) {
	r := newTestResolver(t, "/repo/Assignments", "/empty")

	got, err := r.ResolveContentRoot("/repo")
	require.NoError(t, err)
	assert.Equal(t, "/repo/Assignments", got)

	got, err = r.ResolveContentRoot("/repo/Assignments")
	require.NoError(t, err)
	assert.Equal(t, "/repo/Assignments", got)

	_, err = r.ResolveContentRoot("/empty")
	assert.ErrorIs(t, err, ErrMissingContainer)
}

func TestResolveSections(t *testing.T) {
	r := newTestResolver(t,
		"/repo/Assignments/02-Alpha",
		"/repo/Assignments/12-Beta",
		"/repo/Assignments/13-Beta_Review",
		"/repo/Assignments/.05-Hidden",
		"/repo/Assignments/Scratch",
	)
	require.NoError(t, util.WriteFile(r.Filesystem(), "/repo/Assignments/04-File", []byte("x"), 0o644))

	all, err := r.ResolveSections("/repo/Assignments", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/repo/Assignments/02-Alpha",
		"/repo/Assignments/12-Beta",
		"/repo/Assignments/13-Beta_Review",
	}, all)

	got, err := r.ResolveSections("/repo/Assignments", "02")
	require.NoError(t, err)
	assert.Equal(t, []string{"/repo/Assignments/02-Alpha"}, got)

	got, err = r.ResolveSections("/repo/Assignments", "12-Beta")
	require.NoError(t, err)
	assert.Equal(t, []string{"/repo/Assignments/12-Beta"}, got)

	_, err = r.ResolveSections("/repo/Assignments", "Beta")
	require.ErrorIs(t, err, ErrAmbiguous)
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "/repo/Assignments", rerr.Dir)

	_, err = r.ResolveSections("/repo/Assignments", "Hidden")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveGroups(t *testing.T) {
	r := newTestResolver(t,
		"/repo/Assignments/02-Alpha/01-Maps",
		"/repo/Assignments/02-Alpha/03-Rasters",
	)

	got, err := r.ResolveGroups("/repo/Assignments/02-Alpha", "03")
	require.NoError(t, err)
	assert.Equal(t, []string{"/repo/Assignments/02-Alpha/03-Rasters"}, got)

	_, err = r.ResolveGroups("/repo/Assignments/02-Alpha", "vector")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListGroups_IncludesSymlinkedDirs(t *testing.T) {
	r := newTestResolver(t, "/repo/Assignments/02-Alpha/01-Maps", "/shared/lesson")
	require.NoError(t, r.Filesystem().Symlink("/shared/lesson", "/repo/Assignments/02-Alpha/02-Shared"))

	got, err := r.ListGroups("/repo/Assignments/02-Alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/repo/Assignments/02-Alpha/01-Maps",
		"/repo/Assignments/02-Alpha/02-Shared",
	}, got)
}

func TestGuard(t *testing.T) {
	r := newTestResolver(t, "/repo/Assignments/02-Alpha/01-Maps", "/outside")
	base := "/repo/Assignments"

	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{"base itself", "/repo/Assignments", false},
		{"descendant", "/repo/Assignments/02-Alpha/01-Maps", false},
		{"not yet created descendant", "/repo/Assignments/02-Alpha/01-Maps/Lessons/01-Intro", false},
		{"sibling", "/repo/Other", true},
		{"parent", "/repo", true},
		{"traversal", "/repo/Assignments/../Other", true},
		{"prefix lookalike", "/repo/Assignments2", true},
		{"unrelated", "/outside", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Guard(base, tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutsideRoot)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGuard_SymlinkEscape(t *testing.T) {
	r := newTestResolver(t, "/repo/Assignments/02-Alpha", "/outside/evil")
	fs := r.Filesystem()
	require.NoError(t, fs.Symlink("/outside/evil", "/repo/Assignments/02-Alpha/01-Link"))
	require.NoError(t, fs.Symlink("../../../outside", "/repo/Assignments/02-Alpha/02-Rel"))

	_, err := r.Guard("/repo/Assignments", "/repo/Assignments/02-Alpha/01-Link")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = r.Guard("/repo/Assignments", "/repo/Assignments/02-Alpha/01-Link/Lessons")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = r.Guard("/repo/Assignments", "/repo/Assignments/02-Alpha/02-Rel")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestGuard_RelativeTarget(t *testing.T) {
	r := newTestResolver(t, "/work/Assignments/01-A/01-G")

	got, err := r.Guard("/work/Assignments", "Assignments/01-A/01-G")
	require.NoError(t, err)
	assert.Equal(t, "/work/Assignments/01-A/01-G", got)

	_, err = r.Guard("/work/Assignments", "elsewhere")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestGuard_SymlinkLoop(t *testing.T) {
	r := newTestResolver(t, "/repo/Assignments")
	fs := r.Filesystem()
	require.NoError(t, fs.Symlink("/repo/Assignments/b", "/repo/Assignments/a"))
	require.NoError(t, fs.Symlink("/repo/Assignments/a", "/repo/Assignments/b"))

	_, err := r.Guard("/repo/Assignments", "/repo/Assignments/a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many levels")
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("/a", "/a"))
	assert.True(t, Contains("/a", "/a/b"))
	assert.True(t, Contains("/a", "/a/..b"))
	assert.False(t, Contains("/a", "/ab"))
	assert.False(t, Contains("/a/b", "/a"))
}
