package pathfinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
)

// maxSymlinkHops bounds symlink resolution so a loop cannot hang the guard.
const maxSymlinkHops = 40

// Guard resolves base and target to canonical absolute paths and succeeds only
// when target equals base or lies below it. The canonical target is returned.
func (r *Resolver) Guard(base, target string) (string, error) {
	b, err := r.absCanonical(base)
	if err != nil {
		return "", err
	}
	t, err := r.absCanonical(target)
	if err != nil {
		return "", err
	}
	if !Contains(b, t) {
		return "", fmt.Errorf("%w: target is not under %s: %s", ErrOutsideRoot, b, t)
	}
	return t, nil
}

func (r *Resolver) absCanonical(p string) (string, error) {
	if !filepath.IsAbs(p) {
		wd, err := r.getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		p = filepath.Join(wd, p)
	}
	return canonical(r.fs, p)
}

// Contains reports whether target equals base or is a proper descendant. Both
// paths must already be absolute and clean.
func Contains(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// canonical cleans an absolute path and resolves every symlink along it.
// Components that do not exist yet are kept lexically.
func canonical(fs billy.Filesystem, p string) (string, error) {
	p = filepath.Clean(p)
	vol := filepath.VolumeName(p)
	root := vol + string(filepath.Separator)

	parts := splitClean(p[len(vol):])
	resolved := root
	hops := 0

	for i := 0; i < len(parts); i++ {
		next := filepath.Join(resolved, parts[i])
		fi, err := fs.Lstat(next)
		if err != nil {
			rest := append([]string{next}, parts[i+1:]...)
			return filepath.Join(rest...), nil
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			resolved = next
			continue
		}

		hops++
		if hops > maxSymlinkHops {
			return "", fmt.Errorf("too many levels of symbolic links: %s", p)
		}
		target, err := fs.Readlink(next)
		if err != nil {
			return "", fmt.Errorf("failed to read link %s: %w", next, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(resolved, target)
		}
		target = filepath.Clean(target)
		tvol := filepath.VolumeName(target)
		parts = append(splitClean(target[len(tvol):]), parts[i+1:]...)
		resolved = tvol + string(filepath.Separator)
		i = -1
	}
	return resolved, nil
}

func splitClean(p string) []string {
	var out []string
	for _, s := range strings.Split(p, string(filepath.Separator)) {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}
