/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package meta builds, parses and serializes per-folder metadata records.
package meta

import "strconv"

// Opt is a field that may be absent from a record.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Some returns a present field holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// Or returns the value when present and fallback otherwise.
func (o Opt[T]) Or(fallback T) T {
	if o.Set {
		return o.Value
	}
	return fallback
}

type scalarKind int

const (
	scalarNull scalarKind = iota
	scalarInt
	scalarString
)

// Scalar is a loosely typed value for hand-edited fields such as due and points.
// The zero value is null.
type Scalar struct {
	kind scalarKind
	n    int64
	s    string
}

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Int returns an integer scalar.
func Int(n int64) Scalar { return Scalar{kind: scalarInt, n: n} }

// String returns a string scalar.
func String(s string) Scalar { return Scalar{kind: scalarString, s: s} }

// Text returns the scalar as it would appear unquoted.
func (s Scalar) Text() string {
	switch s.kind {
	case scalarInt:
		return strconv.FormatInt(s.n, 10)
	case scalarString:
		return s.s
	default:
		return "null"
	}
}

// Record is one metadata file. Fields are optional so that absent and
// present-but-empty stay distinguishable across a parse and rewrite.
type Record struct {
	SchemaVersion Opt[int]
	Title         Opt[string]
	Type          Opt[string]
	Status        Opt[string]
	Due           Opt[Scalar]
	Points        Opt[Scalar]
	Notebooks     Opt[[]string]
	Files         Opt[[]string]
	CreatedAt     Opt[string]
	UpdatedAt     Opt[string]
}

// Key order used by Serialize.
var fieldOrder = []string{
	"schema_version",
	"title",
	"type",
	"status",
	"due",
	"points",
	"notebooks",
	"files",
	"created_at",
	"updated_at",
}

// Keys returns the names of the fields present in r, in canonical order.
func (r Record) Keys() []string {
	present := map[string]bool{
		"schema_version": r.SchemaVersion.Set,
		"title":          r.Title.Set,
		"type":           r.Type.Set,
		"status":         r.Status.Set,
		"due":            r.Due.Set,
		"points":         r.Points.Set,
		"notebooks":      r.Notebooks.Set,
		"files":          r.Files.Set,
		"created_at":     r.CreatedAt.Set,
		"updated_at":     r.UpdatedAt.Set,
	}
	var out []string
	for _, k := range fieldOrder {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}
