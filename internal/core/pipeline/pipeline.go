// Package pipeline composes normalize, classify, extract, select and
// synthesize into one total operation. Run never returns an error and never
// panics across its boundary; everything degrades to a Rejected result
package pipeline

import (
	"context"
	"fmt"

	"incant/internal/core/capability"
	"incant/internal/core/catalog"
	"incant/internal/core/classify"
	"incant/internal/core/entity"
	"incant/internal/core/normalize"
	"incant/internal/core/synth"
	"incant/internal/core/template"
	"incant/internal/platform/logger"
)

// UnknownCommand is the fixed sentinel returned for every rejected query.
// A rejected result never leaks a partially synthesized command
const UnknownCommand = "unknown"

// Status is the pipeline's terminal state
type Status string

// Terminal states
const (
	StatusSuccess  Status = "success"
	StatusRejected Status = "rejected"
)

// Result is the full observable outcome of one pipeline run
type Result struct {
	Input      string            `json:"input"`
	Normalized string            `json:"normalized"`
	Detection  classify.Result   `json:"detection"`
	Entities   map[string]string `json:"entities,omitempty"`
	Command    string            `json:"command"`
	TemplateID string            `json:"template_id,omitempty"`
	Status     Status            `json:"status"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// Success reports whether the run produced an executable command
func (r Result) Success() bool { return r.Status == StatusSuccess }

// Options tune a pipeline instance
type Options struct {
	// Threshold overrides the catalog's acceptance threshold when > 0
	Threshold float64
	// ReRanker optionally nudges confidence after classification. Advisory:
	// it can move a detection across the gate but never creates or renames one
	ReRanker capability.SemanticReRanker
}

// Pipeline is the orchestrator. Construct once, share across goroutines;
// per-run state lives on the stack
type Pipeline struct {
	norm     *normalize.Normalizer
	cls      *classify.Classifier
	reg      *entity.Registry
	synth    *synth.Synthesizer
	provider *catalog.Provider
	opts     Options
	log      logger.Logger
}

// New wires a pipeline from its stages
func New(
	provider *catalog.Provider,
	norm *normalize.Normalizer,
	cls *classify.Classifier,
	reg *entity.Registry,
	sy *synth.Synthesizer,
	opts Options,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		norm:     norm,
		cls:      cls,
		reg:      reg,
		synth:    sy,
		provider: provider,
		opts:     opts,
		log:      log,
	}
}

// Default wires the standard pipeline: default normalizer, the nine-stage
// cascade with a deadline-bounded levenshtein fuzzy matcher, the shipped
// entity registry and the four domain adapters
func Default(provider *catalog.Provider, opts Options, log logger.Logger) *Pipeline {
	fuzzy := capability.BoundedFuzzy{Inner: capability.LevenshteinFuzzy{}}
	return New(
		provider,
		normalize.New(),
		classify.New(provider, fuzzy, log),
		entity.Default(),
		synth.Defaults(),
		opts,
		log,
	)
}

// Run translates raw text into a command. Total: any input, including empty
// text and internal panics, yields a well-formed Result
func (p *Pipeline) Run(ctx context.Context, raw string) (res Result) {
	res = Result{Input: raw, Command: UnknownCommand, Status: StatusRejected}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("input", raw).Msg("pipeline panic recovered")
			res = Result{
				Input:     raw,
				Detection: classify.Result{Domain: classify.IntentUnknown, Intent: classify.IntentUnknown, Stage: "panic"},
				Command:   UnknownCommand,
				Status:    StatusRejected,
				Warnings:  []string{fmt.Sprintf("internal failure: %v", r)},
			}
		}
	}()

	snap := p.provider.Snapshot()
	threshold := snap.Weights.AcceptThreshold
	if p.opts.Threshold > 0 {
		threshold = p.opts.Threshold
	}

	res.Normalized = p.norm.Normalize(ctx, raw)
	res.Detection = p.cls.Classify(ctx, res.Normalized)

	if p.opts.ReRanker != nil && !res.Detection.Unknown() {
		if s, err := p.opts.ReRanker.Score(ctx, res.Normalized, res.Detection.Domain, res.Detection.Intent); err == nil {
			// blend, never replace: the reranker is advisory
			res.Detection.Confidence = (res.Detection.Confidence + s) / 2
		} else if !capability.Unavailable(err) {
			p.log.Warn().Err(err).Msg("reranker failed")
		}
	}

	// extraction runs even for a detection the gate will reject, so a
	// rejected result still reports what was understood
	bag := p.reg.Extract(res.Normalized, res.Detection.Domain)
	res.Entities = renderBag(bag)

	if res.Detection.Unknown() || res.Detection.Confidence < threshold {
		p.log.Debug().
			Str("intent", res.Detection.Intent).
			Float64("confidence", res.Detection.Confidence).
			Float64("threshold", threshold).
			Msg("rejected by confidence gate")
		return res
	}

	sel, err := template.New(snap).Select(res.Detection.Domain, res.Detection.Intent, bag)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		return res
	}

	cmd, err := p.synth.Synthesize(sel.Template, bag)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		return res
	}

	res.Command = cmd.Text
	res.TemplateID = cmd.TemplateID
	res.Warnings = append(res.Warnings, cmd.Warnings...)
	res.Status = StatusSuccess
	return res
}

func renderBag(bag *entity.Bag) map[string]string {
	if bag.Len() == 0 {
		return nil
	}
	out := make(map[string]string, bag.Len())
	for _, name := range bag.Names() {
		if v, ok := bag.Get(name); ok {
			out[name] = v.String()
		}
	}
	return out
}
