// Package capability defines the optional collaborators the pipeline may use:
// a lemmatizer, a fuzzy matcher and a semantic re-ranker. Every capability has
// a null-object default that reports unavailable, so pipeline code branches on
// "did this call return a result", never on "is this capability installed"
package capability

import (
	"context"

	perr "incant/internal/platform/errors"
)

// Lemmatizer reduces inflected words to canonical forms. Optional
type Lemmatizer interface {
	Lemmatize(ctx context.Context, text string) (string, error)
}

// Match is a fuzzy-match result on a 0..1 scale
type Match struct {
	Candidate string
	Score     float64
}

// FuzzyMatcher finds the closest known pattern to the input. Optional
type FuzzyMatcher interface {
	BestMatch(ctx context.Context, text string, candidates []string) (Match, error)
}

// SemanticReRanker scores how well a (domain, intent) fits the text.
// Advisory only: it may nudge confidence but never produces a detection
type SemanticReRanker interface {
	Score(ctx context.Context, text, domain, intent string) (float64, error)
}

// ErrUnavailable is what every null object and timed-out wrapper returns
var ErrUnavailable = perr.CapabilityUnavailablef("capability unavailable")

// NullLemmatizer reports unavailable
type NullLemmatizer struct{}

// Lemmatize always reports unavailable
func (NullLemmatizer) Lemmatize(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// NullFuzzy reports unavailable
type NullFuzzy struct{}

// BestMatch always reports unavailable
func (NullFuzzy) BestMatch(context.Context, string, []string) (Match, error) {
	return Match{}, ErrUnavailable
}

// NullReRanker reports unavailable
type NullReRanker struct{}

// Score always reports unavailable
func (NullReRanker) Score(context.Context, string, string, string) (float64, error) {
	return 0, ErrUnavailable
}

// Unavailable reports whether err marks a skipped capability
func Unavailable(err error) bool {
	return perr.IsCode(err, perr.ErrorCodeCapabilityUnavailable)
}
