/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package meta

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads a record leniently. Blank lines, comments, unknown keys and
// malformed lines are skipped; null values count as absent. List fields
// accept "key: []", a "[]" marker on the next line, "- item" lines and
// single-line flow lists.
func Parse(data []byte) Record {
	var r Record
	var list *Opt[[]string]

	for _, raw := range strings.Split(string(data), "\n") {
		raw = strings.TrimRight(raw, "\r")
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		indented := raw != strings.TrimLeft(raw, " \t")
		if list != nil && (indented || strings.HasPrefix(line, "- ") || line == "-") {
			switch {
			case line == "[]":
				list.Set = true
			case strings.HasPrefix(line, "-"):
				item := unquote(strings.TrimSpace(strings.TrimPrefix(line, "-")))
				if item != "" {
					list.Value = append(list.Value, item)
				}
			}
			continue
		}
		list = nil

		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "notebooks":
			list = parseList(&r.Notebooks, val)
		case "files":
			list = parseList(&r.Files, val)
		case "schema_version":
			if n, err := strconv.Atoi(val); err == nil && isDigits(val) {
				r.SchemaVersion = Some(n)
			}
		case "title":
			r.Title = parseText(val)
		case "type":
			r.Type = parseText(val)
		case "status":
			r.Status = parseText(val)
		case "created_at":
			r.CreatedAt = parseText(val)
		case "updated_at":
			r.UpdatedAt = parseText(val)
		case "due":
			r.Due = Some(parseScalar(val))
		case "points":
			r.Points = Some(parseScalar(val))
		}
	}
	return r
}

// parseList handles the value part of a list key and returns the list to keep
// appending to when items may follow on later lines.
func parseList(dst *Opt[[]string], val string) *Opt[[]string] {
	switch {
	case val == "":
		*dst = Opt[[]string]{Value: []string{}, Set: true}
		return dst
	case val == "null":
		*dst = Opt[[]string]{}
	case strings.HasPrefix(val, "[") && strings.HasSuffix(val, "]"):
		items := []string{}
		for _, part := range splitFlow(val[1 : len(val)-1]) {
			if item := unquote(strings.TrimSpace(part)); item != "" {
				items = append(items, item)
			}
		}
		*dst = Some(items)
	}
	return nil
}

// splitFlow splits a flow list body on commas outside quotes.
func splitFlow(s string) []string {
	var parts []string
	var quote rune
	start := 0
	escaped := false
	for i, c := range s {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && quote == '"':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func parseText(val string) Opt[string] {
	if val == "null" || val == "" {
		return Opt[string]{}
	}
	return Some(unquote(val))
}

func parseScalar(val string) Scalar {
	switch {
	case val == "null" || val == "" || val == "~":
		return Null()
	case isDigits(val):
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return Int(n)
		}
	}
	return String(unquote(val))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// unquote strips one pair of matching surrounding quotes. Double-quoted text
// has its backslash escapes decoded.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	switch {
	case s[0] == '"' && s[len(s)-1] == '"':
		return unescape(s[1 : len(s)-1])
	case s[0] == '\'' && s[len(s)-1] == '\'':
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"', '\\':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Serialize renders r in canonical key order, omitting absent fields. Strings
// are double-quoted when they contain a colon or a newline, or when YAML would
// not read them back verbatim; list items are always quoted.
func Serialize(r Record) []byte {
	var b strings.Builder

	scalar := func(key, val string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(val)
		b.WriteByte('\n')
	}
	list := func(key string, items []string) {
		b.WriteString(key)
		b.WriteString(":\n")
		if len(items) == 0 {
			b.WriteString("  []\n")
			return
		}
		for _, it := range items {
			b.WriteString("  - ")
			b.WriteString(quote(it))
			b.WriteByte('\n')
		}
	}

	for _, key := range r.Keys() {
		switch key {
		case "schema_version":
			scalar(key, strconv.Itoa(r.SchemaVersion.Value))
		case "title":
			scalar(key, quoteIfNeeded(r.Title.Value))
		case "type":
			scalar(key, quoteIfNeeded(r.Type.Value))
		case "status":
			scalar(key, quoteIfNeeded(r.Status.Value))
		case "due":
			scalar(key, renderScalar(r.Due.Value))
		case "points":
			scalar(key, renderScalar(r.Points.Value))
		case "notebooks":
			list(key, r.Notebooks.Value)
		case "files":
			list(key, r.Files.Value)
		case "created_at":
			scalar(key, quoteIfNeeded(r.CreatedAt.Value))
		case "updated_at":
			scalar(key, quoteIfNeeded(r.UpdatedAt.Value))
		}
	}
	return []byte(b.String())
}

func renderScalar(s Scalar) string {
	if s.kind == scalarString {
		return quoteIfNeeded(s.s)
	}
	return s.Text()
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ":\n") || !readsBackBare(s) {
		return quote(s)
	}
	return s
}

// readsBackBare reports whether s written as an unquoted mapping value reads
// back as the same string. Leading indicators ("- x", "[Draft]", "#1"),
// comments, reserved words and numbers all fail.
func readsBackBare(s string) bool {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte("v: "+s+"\n"), &doc); err != nil {
		return false
	}
	v, ok := doc["v"].(string)
	return ok && v == s
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
