package entity

import "sort"

// Source tags where a bag entry came from
type Source string

// Entry sources
const (
	SourcePattern Source = "pattern"
	SourcePost    Source = "postprocessor"
)

// Provenance records which rule produced an entry, for observability
type Provenance struct {
	Source   Source
	Pattern  string // pattern expression or post processor name
	Priority int
}

// Entry is a typed value plus its provenance
type Entry struct {
	Value Value
	Prov  Provenance
}

// Bag maps entity name -> typed value + provenance. It is mutated only during
// extraction and by post processors in registration order, then frozen
type Bag struct {
	vals   map[string]Entry
	frozen bool
}

// NewBag returns an empty, unfrozen bag
func NewBag() *Bag {
	return &Bag{vals: make(map[string]Entry, 8)}
}

// Set stores or replaces an entry. Panics if the bag is frozen: freezing marks
// the end of the post processing phase and later writes are programmer error
func (b *Bag) Set(name string, v Value, prov Provenance) {
	if b.frozen {
		panic("entity: bag is frozen")
	}
	b.vals[name] = Entry{Value: v, Prov: prov}
}

// Delete removes an entry (post processors collapse redundant entities)
func (b *Bag) Delete(name string) {
	if b.frozen {
		panic("entity: bag is frozen")
	}
	delete(b.vals, name)
}

// Get returns the typed value for name
func (b *Bag) Get(name string) (Value, bool) {
	e, ok := b.vals[name]
	return e.Value, ok
}

// Entry returns value plus provenance
func (b *Bag) Entry(name string) (Entry, bool) {
	e, ok := b.vals[name]
	return e, ok
}

// Has reports whether name is present
func (b *Bag) Has(name string) bool {
	_, ok := b.vals[name]
	return ok
}

// StringVal returns the String entity value for name, or "" when absent or
// of another kind
func (b *Bag) StringVal(name string) string {
	if v, ok := b.vals[name]; ok {
		if s, ok := v.Value.(String); ok {
			return s.V
		}
	}
	return ""
}

// Len returns the number of entries
func (b *Bag) Len() int { return len(b.vals) }

// Names returns entry names sorted for deterministic iteration
func (b *Bag) Names() []string {
	out := make([]string, 0, len(b.vals))
	for k := range b.vals {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Freeze seals the bag; any later Set or Delete panics
func (b *Bag) Freeze() { b.frozen = true }

// Frozen reports whether the bag is sealed
func (b *Bag) Frozen() bool { return b.frozen }

// Clone returns an unfrozen copy (tests use this to probe idempotency)
func (b *Bag) Clone() *Bag {
	c := NewBag()
	for k, v := range b.vals {
		c.vals[k] = v
	}
	return c
}

// Equal reports whether two bags hold the same names and rendered values
func (b *Bag) Equal(o *Bag) bool {
	if len(b.vals) != len(o.vals) {
		return false
	}
	for k, v := range b.vals {
		ov, ok := o.vals[k]
		if !ok || v.Value.String() != ov.Value.String() {
			return false
		}
	}
	return true
}
