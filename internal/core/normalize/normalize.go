// Package normalize provides the deterministic text normalizer feeding the
// classifier and the extractors
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization, case folding, width fold
// 3 Fixed diacritic substitution table (not full decomposition)
// 4 Collapse whitespace to single spaces and trim
// 5 Fixed typo table for known tool-name misspellings
// 6 Verb-form canonicalization (inflected imperatives to one canonical verb)
// 7 Optional lemmatizer capability; a no-op when absent
// Downstream stages must not assume the lemmatizer ran
package normalize

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"incant/internal/core/capability"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is total and deterministic: Normalize never fails, whatever the
// input. Concurrency safe; the transform chain is pooled
type Normalizer struct {
	lemma capability.Lemmatizer
}

// Option mutates a Normalizer during construction
type Option func(*Normalizer)

// WithLemmatizer injects the optional lemmatizer capability
func WithLemmatizer(l capability.Lemmatizer) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.lemma = l
		}
	}
}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer
func New(opts ...Option) *Normalizer {
	n := &Normalizer{lemma: capability.NullLemmatizer{}}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize returns the normalized form of s following the pipeline above
func (n *Normalizer) Normalize(ctx context.Context, s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 3 fixed diacritic table
	ns = foldDiacritics(ns)

	// 4 collapse whitespace and trim
	ns = collapseSpaces(ns)

	// 5-6 token tables
	ns = applyTokenTable(ns, typoTable)
	ns = applyTokenTable(ns, verbTable)

	// 7 optional lemmatizer; unavailable means skip, never an error
	if out, err := n.lemma.Lemmatize(ctx, ns); err == nil && out != "" {
		ns = out
	}

	return ns
}

// foldDiacritics maps the curated accent set to ASCII. A fixed table rather
// than full decomposition: some source letters have no combining form
func foldDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if sub, ok := diacriticTable[r]; ok {
			b.WriteRune(sub)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// applyTokenTable replaces whole space-separated tokens via the given table
func applyTokenTable(s string, table map[string]string) string {
	if s == "" {
		return s
	}
	fields := strings.Split(s, " ")
	changed := false
	for i, f := range fields {
		if sub, ok := table[f]; ok {
			fields[i] = sub
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(fields, " ")
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
