// Package synth turns a selected template plus an entity bag into a final
// command string. Domain syntax lives in per-domain adapters; the synthesizer
// itself only knows placeholders, defaults and gap markers
package synth

import (
	"fmt"
	"strings"

	"incant/internal/core/entity"
)

// Adapter supplies one target domain's syntax: how entity values render into
// command fragments, what an unfilled placeholder defaults to, and how raw
// strings are escaped
type Adapter interface {
	ID() string
	Escape(s string) string
	// Render turns a present entity into the replacement text for its
	// placeholder. Fragment placeholders (filters) include their own leading
	// space so an absent entity leaves no hole
	Render(name string, v entity.Value) string
	// Default returns the replacement for an absent entity, and whether one
	// exists. No default means a synthesis gap
	Default(name string) (string, bool)
}

// ShellAdapter renders POSIX shell commands built around find/ls/du
type ShellAdapter struct{}

// ID returns the domain id
func (ShellAdapter) ID() string { return "shell" }

// Escape quotes shell metacharacters inside a double-quoted context
func (ShellAdapter) Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return r.Replace(s)
}

// Render maps shell entities to find/ls fragments. Age filters render as
// "-mtime -N": the day count is what the extractor resolved, the sign is
// find's day-granularity convention for the tool's default window direction
func (a ShellAdapter) Render(name string, v entity.Value) string {
	switch name {
	case "path":
		return shellPath(v)
	case "target":
		switch strings.ToLower(v.String()) {
		case "directories":
			return " -type d"
		case "files":
			return " -type f"
		}
		return ""
	case "extension":
		return fmt.Sprintf(` -name "*.%s"`, a.Escape(v.String()))
	case "size":
		if s, ok := v.(entity.Size); ok {
			sign := "+"
			if s.Op == entity.OpBefore {
				sign = "-"
			}
			return fmt.Sprintf(" -size %s%s%s", sign, entity.Number{V: s.V}.String(), s.Unit)
		}
		return " -size " + a.Escape(v.String())
	case "age":
		if w, ok := v.(entity.Window); ok {
			return fmt.Sprintf(" -mtime -%s", w.Number())
		}
		return " -mtime " + a.Escape(v.String())
	case "process":
		return fmt.Sprintf(" | grep %q", a.Escape(v.String()))
	default:
		return a.Escape(v.String())
	}
}

// Default supplies "." for path and empty fragments for the optional filters
func (ShellAdapter) Default(name string) (string, bool) {
	switch name {
	case "path":
		return ".", true
	case "target", "extension", "size", "age", "process":
		return "", true
	}
	return "", false
}

func shellPath(v entity.Value) string {
	if p, ok := v.(entity.Path); ok {
		if p.Kind == entity.PathUserHome && p.User == entity.CurrentUser {
			return "~"
		}
		return p.String()
	}
	return v.String()
}

// SQLAdapter renders SQL statements
type SQLAdapter struct{}

// ID returns the domain id
func (SQLAdapter) ID() string { return "sql" }

// Escape doubles quotes and strips statement separators out of identifiers
func (SQLAdapter) Escape(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	s = strings.ReplaceAll(s, `"`, `""`)
	return strings.ReplaceAll(s, ";", "")
}

// Render maps sql entities into statement fragments
func (a SQLAdapter) Render(name string, v entity.Value) string {
	switch name {
	case "limit":
		if n, ok := v.(entity.Number); ok {
			return n.String()
		}
		return a.Escape(v.String())
	default:
		return a.Escape(v.String())
	}
}

// Default supplies a row cap; tables have no safe default
func (SQLAdapter) Default(name string) (string, bool) {
	if name == "limit" {
		return "100", true
	}
	return "", false
}

// DockerAdapter renders docker CLI commands
type DockerAdapter struct{}

// ID returns the domain id
func (DockerAdapter) ID() string { return "docker" }

// Escape keeps only the characters valid in container and image names
func (DockerAdapter) Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-', r == '.', r == '/', r == ':':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Render maps docker entities into CLI arguments
func (a DockerAdapter) Render(name string, v entity.Value) string {
	switch name {
	case "lines":
		if n, ok := v.(entity.Number); ok {
			return n.String()
		}
	}
	return a.Escape(v.String())
}

// Default caps log output; container names have no default
func (DockerAdapter) Default(name string) (string, bool) {
	if name == "lines" {
		return "100", true
	}
	return "", false
}

// BrowserAdapter renders URL-opening commands
type BrowserAdapter struct{}

// ID returns the domain id
func (BrowserAdapter) ID() string { return "browser" }

// Escape percent-encodes the characters that break out of a quoted URL
func (BrowserAdapter) Escape(s string) string {
	r := strings.NewReplacer(`"`, "%22", " ", "+", "&", "%26", "#", "%23")
	return r.Replace(s)
}

// Render percent-encodes every browser entity
func (a BrowserAdapter) Render(_ string, v entity.Value) string {
	return a.Escape(v.String())
}

// Default has nothing to offer: a search without a query is a gap
func (BrowserAdapter) Default(string) (string, bool) { return "", false }
