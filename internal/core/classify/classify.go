// Package classify resolves normalized text to a (domain, intent) with a
// confidence score. Stages run in a fixed order from most to least precise;
// the first stage that detects wins and later stages never run. The final
// stage always answers, so classification is total
package classify

import (
	"context"
	"strings"

	"incant/internal/core/capability"
	"incant/internal/core/catalog"
	"incant/internal/platform/logger"
)

// IntentUnknown is the sentinel intent for text no stage could resolve.
// It always carries confidence 0
const IntentUnknown = "unknown"

// Result is a classification outcome
type Result struct {
	Domain     string  `json:"domain"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Pattern    string  `json:"pattern,omitempty"`
	Stage      string  `json:"stage"`
}

// Unknown reports whether r is the rejection sentinel
func (r Result) Unknown() bool { return r.Domain == IntentUnknown || r.Intent == IntentUnknown }

// Query is the mutable per-classification state stages share. Non-terminal
// stages write Flags; terminal stages only read
type Query struct {
	Text  string
	Words map[string]bool
	Flags map[string]bool
}

func newQuery(text string) *Query {
	q := &Query{
		Text:  text,
		Words: make(map[string]bool),
		Flags: make(map[string]bool),
	}
	for _, w := range strings.Fields(text) {
		q.Words[strings.Trim(w, ".,;:!?\"'")] = true
	}
	return q
}

// Stage is one step of the cascade. A false return passes the query to the
// next stage
type Stage interface {
	Name() string
	Run(ctx context.Context, snap *catalog.Snapshot, q *Query) (Result, bool)
}

// Classifier runs the cascade against the current catalog snapshot
type Classifier struct {
	provider *catalog.Provider
	stages   []Stage
	log      logger.Logger
}

// New builds the standard nine-stage cascade. fuzzy may be a null matcher;
// the fuzzy stage then just passes through
func New(provider *catalog.Provider, fuzzy capability.FuzzyMatcher, log logger.Logger) *Classifier {
	return &Classifier{
		provider: provider,
		log:      log,
		stages: []Stage{
			fastPathStage{},
			contextFlagStage{},
			highRiskStage{},
			toolGuardStage{},
			actionGuardStage{},
			priorityIntentStage{},
			patternScanStage{},
			fuzzyStage{matcher: fuzzy},
			fallbackStage{},
		},
	}
}

// Stages returns the cascade's stage names in execution order
func (c *Classifier) Stages() []string {
	out := make([]string, len(c.stages))
	for i, s := range c.stages {
		out[i] = s.Name()
	}
	return out
}

// Classify resolves text. The input is assumed normalized; callers run the
// normalizer first. Never returns an empty Result: the fallback stage emits
// the unknown sentinel when nothing fires
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	snap := c.provider.Snapshot()
	q := newQuery(text)
	for _, s := range c.stages {
		res, ok := s.Run(ctx, snap, q)
		if !ok {
			continue
		}
		c.log.Debug().
			Str("stage", s.Name()).
			Str("domain", res.Domain).
			Str("intent", res.Intent).
			Float64("confidence", res.Confidence).
			Msg("classified")
		return res
	}
	// unreachable: fallbackStage always detects
	return Result{Domain: IntentUnknown, Intent: IntentUnknown, Stage: "fallback"}
}
