package entity

import (
	"regexp"
	"sort"

	perr "incant/internal/platform/errors"
)

// Builder turns regex submatches into a typed value. Returning false rejects
// the match and extraction falls through to the next pattern
type Builder func(m []string) (Value, bool)

// Pattern is one compiled extraction rule for a (domain, entity name) pair.
// Higher priority is tried first; within equal priority, registration order
type Pattern struct {
	Domain   string
	Name     string
	Expr     string
	Priority int
	Build    Builder

	re  *regexp.Regexp
	seq int
}

// PostFunc is a pure, idempotent transformation over the bag. It runs after
// every entity name resolved independently and may read the full text
type PostFunc func(b *Bag, text string)

type postEntry struct {
	name string
	fn   PostFunc
}

// Registry holds extraction patterns and ordered post processors per domain
type Registry struct {
	patterns map[string]map[string][]Pattern
	names    map[string][]string // per-domain entity names in first-registration order
	post     map[string][]postEntry
	seq      int
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		patterns: make(map[string]map[string][]Pattern),
		names:    make(map[string][]string),
		post:     make(map[string][]postEntry),
	}
}

// Register compiles and adds a pattern. Fails with a configuration error on a
// bad expression; extraction never fails at query time
func (r *Registry) Register(domain, name, expr string, priority int, build Builder) error {
	re, err := regexp.Compile(expr)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeConfiguration, "entity: compile %s/%s %q", domain, name, expr)
	}
	byName, ok := r.patterns[domain]
	if !ok {
		byName = make(map[string][]Pattern)
		r.patterns[domain] = byName
	}
	if _, seen := byName[name]; !seen {
		r.names[domain] = append(r.names[domain], name)
	}
	r.seq++
	p := Pattern{
		Domain:   domain,
		Name:     name,
		Expr:     expr,
		Priority: priority,
		Build:    build,
		re:       re,
		seq:      r.seq,
	}
	byName[name] = append(byName[name], p)
	// higher priority first; ties keep registration order so lower-priority
	// patterns stay fallbacks, never overrides
	sort.SliceStable(byName[name], func(i, j int) bool {
		return byName[name][i].Priority > byName[name][j].Priority
	})
	return nil
}

// MustRegister is Register for static wiring; panics on a bad expression
func (r *Registry) MustRegister(domain, name, expr string, priority int, build Builder) {
	if err := r.Register(domain, name, expr, priority, build); err != nil {
		panic(err)
	}
}

// RegisterPost appends a post processor for a domain; order of registration
// is order of execution
func (r *Registry) RegisterPost(domain, name string, fn PostFunc) {
	r.post[domain] = append(r.post[domain], postEntry{name: name, fn: fn})
}

// Extract resolves every registered entity name for the domain independently,
// then runs the domain's post processors in order, then freezes the bag.
// Total: unknown domains and non-matching text yield an empty frozen bag
func (r *Registry) Extract(text, domain string) *Bag {
	bag := NewBag()

	for _, name := range r.names[domain] {
		for _, p := range r.patterns[domain][name] {
			m := p.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			v, ok := p.Build(m)
			if !ok {
				continue
			}
			bag.Set(name, v, Provenance{
				Source:   SourcePattern,
				Pattern:  p.Expr,
				Priority: p.Priority,
			})
			break // first match wins within one entity name
		}
	}

	for _, pe := range r.post[domain] {
		pe.fn(bag, text)
	}

	bag.Freeze()
	return bag
}

// PostProcessors returns the registered post processor names for a domain
func (r *Registry) PostProcessors(domain string) []string {
	out := make([]string, 0, len(r.post[domain]))
	for _, pe := range r.post[domain] {
		out = append(out, pe.name)
	}
	return out
}

// RunPost runs a single named post processor against an unfrozen bag.
// Tests use this to probe idempotency of individual processors
func (r *Registry) RunPost(domain, name string, b *Bag, text string) bool {
	for _, pe := range r.post[domain] {
		if pe.name == name {
			pe.fn(b, text)
			return true
		}
	}
	return false
}
