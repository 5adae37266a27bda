/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package meta

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrNoMatch is returned when an assignment identifier selects no folder.
	ErrNoMatch = errors.New("no folder matched assignment")
	// ErrMultipleMatches is returned when an assignment identifier selects several folders.
	ErrMultipleMatches = errors.New("multiple folders matched assignment")
)

// maxListed bounds the folder names quoted in a no-match error.
const maxListed = 25

// SelectSingleAssignment picks the one folder whose name equals id or starts
// with id followed by a dash, ignoring case.
func SelectSingleAssignment(folders []string, id string) (string, error) {
	needle := strings.ToLower(strings.TrimSpace(id))

	var matches []string
	for _, f := range folders {
		name := strings.ToLower(filepath.Base(f))
		if name == needle || strings.HasPrefix(name, needle+"-") {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		seen := folders
		if len(seen) > maxListed {
			seen = seen[:maxListed]
		}
		return "", fmt.Errorf("%w %q (expected something like %q); first folders seen:\n%s",
			ErrNoMatch, id, id+"-Something", bulletList(seen))
	default:
		return "", fmt.Errorf("%w %q, be more specific; matches:\n%s",
			ErrMultipleMatches, id, bulletList(matches))
	}
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  - ")
		b.WriteString(it)
	}
	return b.String()
}
