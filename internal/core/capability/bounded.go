package capability

import (
	"context"
	"time"
)

// Bounded wrappers enforce the rule that optional capabilities never block the
// pipeline: each call runs under a deadline and degrades to unavailable on
// expiry. The wrapped call keeps running in its goroutine until it notices the
// cancelled context; the pipeline has already moved on

// BoundedLemmatizer wraps a Lemmatizer with a per-call deadline
type BoundedLemmatizer struct {
	Inner   Lemmatizer
	Timeout time.Duration
}

// Lemmatize delegates with a deadline
func (b BoundedLemmatizer) Lemmatize(ctx context.Context, text string) (string, error) {
	type out struct {
		s   string
		err error
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout())
	defer cancel()
	ch := make(chan out, 1)
	go func() {
		s, err := b.Inner.Lemmatize(ctx, text)
		ch <- out{s: s, err: err}
	}()
	select {
	case o := <-ch:
		return o.s, o.err
	case <-ctx.Done():
		return "", ErrUnavailable
	}
}

func (b BoundedLemmatizer) timeout() time.Duration {
	if b.Timeout <= 0 {
		return 250 * time.Millisecond
	}
	return b.Timeout
}

// BoundedFuzzy wraps a FuzzyMatcher with a per-call deadline
type BoundedFuzzy struct {
	Inner   FuzzyMatcher
	Timeout time.Duration
}

// BestMatch delegates with a deadline
func (b BoundedFuzzy) BestMatch(ctx context.Context, text string, candidates []string) (Match, error) {
	type out struct {
		m   Match
		err error
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout())
	defer cancel()
	ch := make(chan out, 1)
	go func() {
		m, err := b.Inner.BestMatch(ctx, text, candidates)
		ch <- out{m: m, err: err}
	}()
	select {
	case o := <-ch:
		return o.m, o.err
	case <-ctx.Done():
		return Match{}, ErrUnavailable
	}
}

func (b BoundedFuzzy) timeout() time.Duration {
	if b.Timeout <= 0 {
		return 250 * time.Millisecond
	}
	return b.Timeout
}

// BoundedReRanker wraps a SemanticReRanker with a per-call deadline
type BoundedReRanker struct {
	Inner   SemanticReRanker
	Timeout time.Duration
}

// Score delegates with a deadline
func (b BoundedReRanker) Score(ctx context.Context, text, domain, intent string) (float64, error) {
	type out struct {
		f   float64
		err error
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout())
	defer cancel()
	ch := make(chan out, 1)
	go func() {
		f, err := b.Inner.Score(ctx, text, domain, intent)
		ch <- out{f: f, err: err}
	}()
	select {
	case o := <-ch:
		return o.f, o.err
	case <-ctx.Done():
		return 0, ErrUnavailable
	}
}

func (b BoundedReRanker) timeout() time.Duration {
	if b.Timeout <= 0 {
		return 250 * time.Millisecond
	}
	return b.Timeout
}
