/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package actions is the single mutation gateway for the course tree.
// Planners return Action values; a Writer either reports or performs them.
package actions

import "fmt"

// Kind identifies the filesystem intent of an Action.
type Kind int

const (
	KindMkdir Kind = iota
	KindWrite
	KindMove
)

func (k Kind) String() string {
	switch k {
	case KindMkdir:
		return "mkdir"
	case KindWrite:
		return "write"
	case KindMove:
		return "move"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is one create-if-absent or move intent. Dest is only used by moves.
type Action struct {
	Kind    Kind
	Path    string
	Dest    string
	Content []byte
}

// Mkdir returns an intent to create dir and its parents.
func Mkdir(dir string) Action {
	return Action{Kind: KindMkdir, Path: dir}
}

// Write returns an intent to create path with content unless it already exists.
func Write(path string, content string) Action {
	return Action{Kind: KindWrite, Path: path, Content: []byte(content)}
}

// Move returns an intent to move src to dst.
func Move(src, dst string) Action {
	return Action{Kind: KindMove, Path: src, Dest: dst}
}

func (a Action) String() string {
	if a.Kind == KindMove {
		return fmt.Sprintf("move %s -> %s", a.Path, a.Dest)
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Path)
}

// Outcome reports what Apply did with an Action.
type Outcome int

const (
	// Applied means the filesystem was changed.
	Applied Outcome = iota
	// Simulated means the change was reported but not performed.
	Simulated
	// Kept means the target existed and overwrite was off.
	Kept
	// Noop means there was nothing to do.
	Noop
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Simulated:
		return "simulated"
	case Kept:
		return "kept"
	case Noop:
		return "noop"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Stats counts outcomes across a Writer's lifetime.
type Stats struct {
	Dirs      int
	Created   int
	Overwrote int
	Moved     int
	Kept      int
	Simulated int
}

// Mutations is the number of filesystem changes actually performed.
func (s Stats) Mutations() int {
	return s.Dirs + s.Created + s.Overwrote + s.Moved
}
