// Package entity implements typed entity extraction over normalized text.
// Patterns register per (domain, entity name) with an explicit priority; within
// one name the highest priority matches first and the first match wins. After
// all names resolve independently, ordered per-domain post processors run to
// settle cross-entity relationships a single pattern cannot see
package entity

import (
	"fmt"
	"strings"
)

// CurrentUser is the sentinel for "whoever is running this", resolved by the
// domain adapter at synthesis time
const CurrentUser = "$USER"

// Value is the closed set of entity value types. Post processors and the
// synthesizer type-switch over it exhaustively instead of probing an untyped map
type Value interface {
	isValue()
	String() string
}

// String is a plain text entity (extension, target, container name, ...)
type String struct {
	V string
}

// Number is a bare numeric entity (limit, line count, ...)
type Number struct {
	V float64
}

// Op is a comparison operator attached to window and size entities
type Op string

// Window operators
const (
	OpBefore Op = "before" // older than
	OpAfter  Op = "after"  // newer than
	OpWithin Op = "within" // inside the window
)

// Window is a time-window entity: value + unit + operator
type Window struct {
	V    float64
	Unit string // "d", "h", "m" after domain normalization
	Op   Op
}

// Size is a size entity: value + unit, normalized to the destination
// domain's unit convention by a post processor (e.g. "MB" -> "M")
type Size struct {
	V    float64
	Unit string
	Op   Op // OpAfter means "bigger than", OpBefore "smaller than"
}

// PathKind discriminates how a path should be resolved
type PathKind uint8

// Path kinds
const (
	PathLiteral  PathKind = iota // absolute or relative path written out
	PathHome                     // current user's home sentinel
	PathUserHome                 // an explicit user's home
)

// Path is a filesystem location entity
type Path struct {
	Kind PathKind
	Raw  string // literal form when Kind == PathLiteral
	User string // owning user when Kind == PathUserHome
}

func (String) isValue() {}
func (Number) isValue() {}
func (Window) isValue() {}
func (Size) isValue()   {}
func (Path) isValue()   {}

func (v String) String() string { return v.V }

func (v Number) String() string {
	return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.2f", v.V), "00"), ".")
}

// String renders the window as an age comparison: "older than 2 days" is an
// age greater than two days, so OpBefore carries the ">" sigil
func (v Window) String() string {
	sigil := ""
	switch v.Op {
	case OpBefore:
		sigil = ">"
	case OpAfter:
		sigil = "<"
	}
	return fmt.Sprintf("%s%s%s", sigil, v.Number(), v.Unit)
}

// Number renders the numeric part without a trailing ".00"
func (v Window) Number() string {
	return Number{V: v.V}.String()
}

func (v Size) String() string {
	return fmt.Sprintf("%s%s%s", opSigil(v.Op), Number{V: v.V}.String(), v.Unit)
}

func (v Path) String() string {
	switch v.Kind {
	case PathHome:
		return "~"
	case PathUserHome:
		return "/home/" + v.User
	default:
		return v.Raw
	}
}

func opSigil(op Op) string {
	switch op {
	case OpAfter:
		return ">"
	case OpBefore:
		return "<"
	default:
		return ""
	}
}
