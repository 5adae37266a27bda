/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package meta

import (
	"time"

	"github.com/fulmenhq/coursekit/internal/classify"
	"github.com/fulmenhq/coursekit/pkg/config"
)

// TimestampLayout is ISO-8601 with seconds precision and a numeric offset.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// BuildOptions select when derived lists are recomputed.
type BuildOptions struct {
	// Refresh recomputes the notebooks/files list even when one exists.
	Refresh bool
	// Prune rewrites the list key so stale entries disappear.
	Prune bool
}

// Builder merges fresh values with an existing record.
type Builder struct {
	Now           func() time.Time
	Location      *time.Location
	SchemaVersion int
	DefaultStatus string
}

// NewBuilder returns a Builder using the wall clock and the configured zone.
func NewBuilder(tables config.Tables) *Builder {
	loc := tables.Location
	if loc == nil {
		loc = time.Local
	}
	return &Builder{
		Now:           time.Now,
		Location:      loc,
		SchemaVersion: tables.SchemaVersion,
		DefaultStatus: tables.DefaultStatus,
	}
}

// Timestamp returns the current time formatted for a record.
func (b *Builder) Timestamp() string {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	loc := b.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc).Truncate(time.Second).Format(TimestampLayout)
}

// Build produces the record for a folder named name with the given role.
// current is the folder's present notebook list (assignment and assessment)
// or resource file list (resource).
//
// Human-authored fields (title, status, due, points) and created_at are kept
// verbatim when present. Empty strings and a schema version below 1 count as
// absent. updated_at is always refreshed. The list is recomputed only when
// refresh or prune is set or the key was absent.
func (b *Builder) Build(name string, role classify.Role, existing Record, current []string, opts BuildOptions) Record {
	now := b.Timestamp()

	version := existing.SchemaVersion
	if version.Value < 1 {
		version = Opt[int]{}
	}

	r := Record{
		SchemaVersion: Some(version.Or(b.SchemaVersion)),
		Title:         Some(nonEmpty(existing.Title).Or(name)),
		Type:          Some(string(role)),
		Status:        Some(nonEmpty(existing.Status).Or(b.DefaultStatus)),
		CreatedAt:     Some(nonEmpty(existing.CreatedAt).Or(now)),
		UpdatedAt:     Some(now),
	}

	recompute := func(prev Opt[[]string]) Opt[[]string] {
		if opts.Refresh || opts.Prune || !prev.Set {
			return Some(cloneList(current))
		}
		return Some(cloneList(prev.Value))
	}

	switch role {
	case classify.RoleResource:
		r.Files = recompute(existing.Files)
	default:
		r.Due = Some(existing.Due.Or(Null()))
		r.Points = Some(existing.Points.Or(Null()))
		r.Notebooks = recompute(existing.Notebooks)
	}
	return r
}

// Default returns a fresh record for a folder created during scaffolding.
func (b *Builder) Default(title string, role classify.Role, items []string) Record {
	return b.Build(title, role, Record{}, items, BuildOptions{})
}

func nonEmpty(o Opt[string]) Opt[string] {
	if o.Value == "" {
		return Opt[string]{}
	}
	return o
}

func cloneList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
