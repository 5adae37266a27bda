/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package actions

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fulmenhq/coursekit/pkg/logger"
	"github.com/fulmenhq/coursekit/pkg/safeio"
	billy "github.com/go-git/go-billy/v5"
)

// Guard confines paths to a base directory. *pathfinder.Resolver implements it.
type Guard interface {
	Guard(base, target string) (string, error)
}

// Options control how a Writer treats existing targets.
type Options struct {
	// Simulate reports every decision without touching the filesystem. It wins over Overwrite.
	Simulate bool
	// Overwrite replaces existing files and move destinations.
	Overwrite bool
	// ShowExisting prints a [keep] line for targets left untouched.
	ShowExisting bool
}

// Writer applies actions below a single base directory.
type Writer struct {
	fs    billy.Filesystem
	guard Guard
	base  string
	out   io.Writer
	opts  Options
	stats Stats
}

// NewWriter creates a Writer. Every action path must pass guard against base
// before the filesystem is touched. Progress lines go to out.
func NewWriter(fs billy.Filesystem, guard Guard, base string, out io.Writer, opts Options) *Writer {
	if out == nil {
		out = io.Discard
	}
	return &Writer{fs: fs, guard: guard, base: base, out: out, opts: opts}
}

// Options returns the writer's options.
func (w *Writer) Options() Options { return w.opts }

// Stats returns the outcome counters so far.
func (w *Writer) Stats() Stats { return w.stats }

// Filesystem returns the filesystem the writer mutates.
func (w *Writer) Filesystem() billy.Filesystem { return w.fs }

// ApplyAll applies actions in order and stops at the first error.
func (w *Writer) ApplyAll(actions []Action) error {
	for _, a := range actions {
		if _, err := w.Apply(a); err != nil {
			return err
		}
	}
	return nil
}

// Apply performs or reports a single action.
func (w *Writer) Apply(a Action) (Outcome, error) {
	if err := w.check(a); err != nil {
		return Noop, err
	}

	switch a.Kind {
	case KindMkdir:
		return w.mkdir(a.Path)
	case KindWrite:
		return w.write(a.Path, a.Content)
	case KindMove:
		return w.move(a.Path, a.Dest)
	default:
		return Noop, fmt.Errorf("unknown action kind %v", a.Kind)
	}
}

// Check applies the containment guard to path without performing anything
// and returns path relative to the base, both taken in canonical form.
func (w *Writer) Check(path string) (string, error) {
	if w.guard == nil {
		return filepath.Rel(filepath.Clean(w.base), filepath.Clean(path))
	}
	base, err := w.guard.Guard(w.base, w.base)
	if err != nil {
		return "", err
	}
	target, err := w.guard.Guard(w.base, path)
	if err != nil {
		return "", err
	}
	return filepath.Rel(base, target)
}

func (w *Writer) check(a Action) error {
	if w.guard == nil {
		return nil
	}
	if _, err := w.guard.Guard(w.base, a.Path); err != nil {
		return err
	}
	if a.Kind == KindMove {
		if _, err := w.guard.Guard(w.base, a.Dest); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) mkdir(dir string) (Outcome, error) {
	if st, err := w.fs.Stat(dir); err == nil {
		if st.IsDir() {
			return Noop, nil
		}
		return Noop, fmt.Errorf("cannot create directory %s: a file is in the way", dir)
	}

	if w.opts.Simulate {
		w.printf("[dry-run] mkdir -p %s\n", dir)
		w.stats.Simulated++
		return Simulated, nil
	}

	if err := safeio.MkdirAll(w.fs, dir); err != nil {
		return Noop, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	w.printf("[mkdir] %s\n", dir)
	w.stats.Dirs++
	logger.Trace("Created directory", logger.String("path", dir))
	return Applied, nil
}

func (w *Writer) write(path string, content []byte) (Outcome, error) {
	exists := safeio.Exists(w.fs, path)
	if exists && !w.opts.Overwrite {
		return w.keep(path), nil
	}

	if w.opts.Simulate {
		verb := "create"
		if exists {
			verb = "overwrite"
		}
		w.printf("[dry-run] %s %s\n", verb, path)
		w.stats.Simulated++
		return Simulated, nil
	}

	if err := safeio.WriteFilePreservePerms(w.fs, path, content); err != nil {
		return Noop, fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.printf("[write] %s\n", path)
	if exists {
		w.stats.Overwrote++
	} else {
		w.stats.Created++
	}
	logger.Trace("Wrote file", logger.String("path", path), logger.Int("bytes", len(content)))
	return Applied, nil
}

func (w *Writer) move(src, dst string) (Outcome, error) {
	if src == dst {
		return Noop, nil
	}
	if safeio.Exists(w.fs, dst) && !w.opts.Overwrite {
		logger.Warn("Move destination exists, leaving source in place",
			logger.String("source", src), logger.String("destination", dst))
		return w.keep(dst), nil
	}

	if w.opts.Simulate {
		w.printf("[dry-run] move %s -> %s\n", src, dst)
		w.stats.Simulated++
		return Simulated, nil
	}

	if _, err := w.fs.Lstat(src); err != nil {
		return Noop, fmt.Errorf("cannot move %s: %w", src, err)
	}
	if safeio.Exists(w.fs, dst) {
		if err := w.fs.Remove(dst); err != nil && !os.IsNotExist(err) {
			return Noop, fmt.Errorf("failed to replace %s: %w", dst, err)
		}
	}
	if err := safeio.MoveFile(w.fs, src, dst); err != nil {
		return Noop, fmt.Errorf("failed to move %s -> %s: %w", src, dst, err)
	}
	w.printf("[move] %s -> %s\n", src, dst)
	w.stats.Moved++
	return Applied, nil
}

func (w *Writer) keep(path string) Outcome {
	if w.opts.ShowExisting {
		w.printf("[keep] %s\n", path)
	}
	w.stats.Kept++
	return Kept
}

func (w *Writer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}
