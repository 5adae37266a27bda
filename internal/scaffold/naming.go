/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fulmenhq/coursekit/internal/classify"
	billy "github.com/go-git/go-billy/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxLessonNumber is the largest number a two-digit lesson prefix can hold.
const MaxLessonNumber = 99

// ErrLessonsExhausted is returned when a group has no two-digit lesson number left.
var ErrLessonsExhausted = errors.New("no lesson numbers left")

var titleCaser = cases.Title(language.Und, cases.NoLower)

// SlugTitle turns a notebook stem into a folder-safe title: runs of
// non-alphanumeric characters become one underscore and every word starts
// with a capital letter. An empty result becomes "Untitled".
func SlugTitle(stem string) string {
	parts := strings.FieldsFunc(stem, func(r rune) bool {
		return !isASCIIAlnum(r)
	})
	if len(parts) == 0 {
		return "Untitled"
	}
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "_")
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Humanize turns a folder remainder such as "Spatial_data" into "Spatial Data".
// Letters after the first of each word keep their case.
func Humanize(s string) string {
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " ")
	return titleCaser.String(s)
}

// GroupTitle is the humanized remainder of a numbered group name.
func GroupTitle(name string) string {
	if _, rest, ok := classify.SplitNumbered(name); ok {
		return Humanize(rest)
	}
	return Humanize(name)
}

// NextAtomicNumber is one more than the highest two-digit prefix among the
// directories in lessonsDir, or 1 when there are none or the folder is missing.
func NextAtomicNumber(fs billy.Filesystem, lessonsDir string) (int, error) {
	infos, err := fs.ReadDir(lessonsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to list %s: %w", lessonsDir, err)
	}

	highest := 0
	for _, fi := range infos {
		if !fi.IsDir() {
			continue
		}
		if n, _, ok := classify.SplitNumbered(fi.Name()); ok && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// LessonFolderName formats an allocated number and slug as a lesson folder name.
func LessonFolderName(n int, slug string) (string, error) {
	if n < 1 || n > MaxLessonNumber {
		return "", fmt.Errorf("%w: cannot allocate lesson %d for %q", ErrLessonsExhausted, n, slug)
	}
	return fmt.Sprintf("%02d-%s", n, slug), nil
}
