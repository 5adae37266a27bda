package pathfinder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingContainer is returned when neither the root nor its child is the content container.
	ErrMissingContainer = errors.New("missing content container")
	// ErrAmbiguous is returned when an identifier matches more than one folder.
	ErrAmbiguous = errors.New("ambiguous identifier")
	// ErrNotFound is returned when an identifier matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrOutsideRoot is returned by the containment guard.
	ErrOutsideRoot = errors.New("refused: outside root")
)

// ResolutionError carries enough context for a caller to correct its input.
type ResolutionError struct {
	Kind       error
	Subject    string
	Query      string
	Dir        string
	Candidates []string
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case ErrAmbiguous:
		fmt.Fprintf(&b, "multiple %ss match %q: %s", e.Subject, e.Query, strings.Join(e.Candidates, ", "))
	default:
		fmt.Fprintf(&b, "no %s matches %q", e.Subject, e.Query)
		if e.Dir != "" {
			fmt.Fprintf(&b, " under %s", e.Dir)
		}
		if len(e.Candidates) > 0 {
			fmt.Fprintf(&b, " (available: %s)", strings.Join(e.Candidates, ", "))
		}
	}
	return b.String()
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *ResolutionError) Unwrap() error { return e.Kind }

// Match applies the identifier precedence to a set of folder names:
//  1. exact name
//  2. a two-digit query selects the unique "NN-" prefix
//  3. unique case-insensitive substring
//
// A step with several matches fails immediately; a step with none falls through.
func Match(subject string, names []string, query string) ([]string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return append([]string(nil), names...), nil
	}

	var exact []string
	for _, n := range names {
		if n == q {
			exact = append(exact, n)
		}
	}
	if res, done, err := decide(subject, q, exact); done {
		return res, err
	}

	if isTwoDigits(q) {
		var byNum []string
		for _, n := range names {
			if strings.HasPrefix(n, q+"-") {
				byNum = append(byNum, n)
			}
		}
		if res, done, err := decide(subject, q, byNum); done {
			return res, err
		}
	}

	lower := strings.ToLower(q)
	var fuzzy []string
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), lower) {
			fuzzy = append(fuzzy, n)
		}
	}
	if res, done, err := decide(subject, q, fuzzy); done {
		return res, err
	}

	return nil, &ResolutionError{Kind: ErrNotFound, Subject: subject, Query: q, Candidates: append([]string(nil), names...)}
}

func decide(subject, q string, matches []string) ([]string, bool, error) {
	switch len(matches) {
	case 0:
		return nil, false, nil
	case 1:
		return matches, true, nil
	default:
		return nil, true, &ResolutionError{Kind: ErrAmbiguous, Subject: subject, Query: q, Candidates: matches}
	}
}

func isTwoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}
