// Package safeio holds small filesystem helpers shared by the writers. All of
// them take the billy filesystem to operate on so callers can run against memory.
package safeio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
)

// CleanUserPath cleans a user-provided relative path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, seg := range strings.Split(filepath.ToSlash(c), "/") {
		if seg == ".." {
			return "", errors.New("path traversal detected")
		}
	}
	return filepath.ToSlash(c), nil
}

// Exists reports whether path exists. Dangling symlinks count as existing.
func Exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Lstat(path)
	return err == nil
}

// ReadFile reads the whole file at path.
func ReadFile(fs billy.Filesystem, path string) ([]byte, error) {
	return util.ReadFile(fs, path)
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644 and creates parents.
func WriteFilePreservePerms(fs billy.Filesystem, path string, data []byte) error {
	var mode os.FileMode = defaultFileMode
	if st, err := fs.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = defaultFileMode
		}
	}
	if err := fs.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return err
	}
	return util.WriteFile(fs, path, data, mode)
}

// MkdirAll creates path and any missing parents.
func MkdirAll(fs billy.Filesystem, path string) error {
	return fs.MkdirAll(path, defaultDirMode)
}

// MoveFile renames src to dst, creating dst's parent. When the rename fails
// because the two paths sit on different devices it falls back to copy and remove.
func MoveFile(fs billy.Filesystem, src, dst string) error {
	if err := fs.MkdirAll(filepath.Dir(dst), defaultDirMode); err != nil {
		return err
	}
	err := fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}
	if cerr := copyFile(fs, src, dst); cerr != nil {
		return fmt.Errorf("rename failed (%v), copy fallback failed: %w", err, cerr)
	}
	return fs.Remove(src)
}

func copyFile(fs billy.Filesystem, src, dst string) error {
	st, err := fs.Stat(src)
	if err != nil {
		return err
	}
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
