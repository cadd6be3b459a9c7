// Package template picks the command template for a detection. Each
// (domain, intent) has a primary template; override predicates on the
// extracted entities can redirect to an alternate, checked in declaration
// order with the first hit winning
package template

import (
	"incant/internal/core/catalog"
	"incant/internal/core/entity"
	perr "incant/internal/platform/errors"
)

// Selection is the chosen template plus the override that produced it,
// if any
type Selection struct {
	Template catalog.Template
	Override string // entity name of the override that fired, empty for primary
}

// Selector resolves templates against a catalog snapshot
type Selector struct {
	snap *catalog.Snapshot
}

// New builds a selector over snap
func New(snap *catalog.Snapshot) *Selector {
	return &Selector{snap: snap}
}

// Select returns the template for (domain, intent) given the extracted
// entities. Selection is deterministic: same detection and entities, same
// template. An override with an empty Equals matches any present value
func (s *Selector) Select(domain, intent string, bag *entity.Bag) (Selection, error) {
	id, ok := s.snap.Primary(domain, intent)
	if !ok {
		return Selection{}, perr.Newf(perr.ErrorCodeNotFound, "template: no template for %s/%s", domain, intent)
	}
	primary := s.snap.Templates[id]

	for _, ov := range primary.Overrides {
		if !bag.Has(ov.Entity) {
			continue
		}
		if ov.Equals == "" || ov.Equals == bag.StringVal(ov.Entity) {
			return Selection{Template: s.snap.Templates[ov.Use], Override: ov.Entity}, nil
		}
	}
	return Selection{Template: primary}, nil
}
