package classify

import (
	"context"
	"strings"

	"incant/internal/core/capability"
	"incant/internal/core/catalog"
)

// fastPathStage matches exact high-precision phrase fragments. Terminal on
// match with a fixed high confidence
type fastPathStage struct{}

func (fastPathStage) Name() string { return "fastpath" }

func (fastPathStage) Run(_ context.Context, snap *catalog.Snapshot, q *Query) (Result, bool) {
	for _, fp := range snap.FastPath {
		if strings.Contains(q.Text, fp.Phrase) {
			return Result{
				Domain:     fp.Domain,
				Intent:     fp.Intent,
				Confidence: snap.Weights.FastPathConfidence,
				Pattern:    fp.Phrase,
				Stage:      "fastpath",
			}, true
		}
	}
	return Result{}, false
}

// contextFlagStage computes auxiliary booleans from keyword presence and
// stores them on the query. Never terminal
type contextFlagStage struct{}

func (contextFlagStage) Name() string { return "context_flags" }

func (contextFlagStage) Run(_ context.Context, snap *catalog.Snapshot, q *Query) (Result, bool) {
	for _, cf := range snap.ContextFlags {
		for _, kw := range cf.AnyOf {
			if q.Words[kw] {
				q.Flags[cf.Flag] = true
				break
			}
		}
	}
	return Result{}, false
}

// highRiskStage resolves destructive intents. A guard only fires when its
// required context flag is set, so destructive commands need corroborating
// vocabulary beyond the verb alone
type highRiskStage struct{}

func (highRiskStage) Name() string { return "high_risk" }

func (highRiskStage) Run(_ context.Context, snap *catalog.Snapshot, q *Query) (Result, bool) {
	return runGuards("high_risk", snap.HighRisk, snap, q)
}

// toolGuardStage catches utterances that name the target tool outright,
// like "docker ps"
type toolGuardStage struct{}

func (toolGuardStage) Name() string { return "tool_guards" }

func (toolGuardStage) Run(_ context.Context, snap *catalog.Snapshot, q *Query) (Result, bool) {
	return runGuards("tool_guards", snap.ToolGuards, snap, q)
}

// actionGuardStage catches unambiguous verb-object pairs
type actionGuardStage struct{}

func (actionGuardStage) Name() string { return "action_guards" }

func (actionGuardStage) Run(_ context.Context, snap *catalog.Snapshot, q *Query) (Result, bool) {
	return runGuards("action_guards", snap.ActionGuards, snap, q)
}

func runGuards(stage string, guards []catalog.Guard, snap *catalog.Snapshot, q *Query) (Result, bool) {
	for _, g := range guards {
		if g.RequiresFlag != "" && !q.Flags[g.RequiresFlag] {
			continue
		}
		if g.Re.MatchString(q.Text) {
			return Result{
				Domain:     g.Domain,
				Intent:     g.Intent,
				Confidence: snap.Weights.GuardConfidence,
				Pattern:    g.Expr,
				Stage:      stage,
			}, true
		}
	}
	return Result{}, false
}

// priorityIntentStage scans only each domain's declared priority intents,
// at an elevated base score. Runs before the general scan so the intents a
// domain cares most about win ambiguous text
type priorityIntentStage struct{}

func (priorityIntentStage) Name() string { return "priority_intents" }

func (priorityIntentStage) Run(_ context.Context, snap *catalog.Snapshot, q *Query) (Result, bool) {
	best, found := Result{}, false
	bestSeq := 0
	for _, id := range snap.DomainOrder {
		d := snap.Domains[id]
		for _, intent := range d.PriorityIntents {
			for _, rule := range d.Intents[intent] {
				if !rule.Re.MatchString(q.Text) {
					continue
				}
				conf := scoreRule(snap.Weights, snap.Weights.PriorityBase, d, rule, q)
				if !found || conf > best.Confidence || (conf == best.Confidence && rule.Seq < bestSeq) {
					best = Result{
						Domain:     rule.Domain,
						Intent:     rule.Intent,
						Confidence: conf,
						Pattern:    rule.Expr,
						Stage:      "priority_intents",
					}
					bestSeq = rule.Seq
					found = true
				}
			}
		}
	}
	return best, found
}

// patternScanStage is the general scan: every intent of every booster-eligible
// domain. A domain with boosters participates only when at least one booster
// word appears in the text; a domain without boosters always participates
type patternScanStage struct{}

func (patternScanStage) Name() string { return "pattern_scan" }

func (patternScanStage) Run(_ context.Context, snap *catalog.Snapshot, q *Query) (Result, bool) {
	best, found := Result{}, false
	bestSeq := 0
	for _, id := range snap.DomainOrder {
		d := snap.Domains[id]
		if len(d.Boosters) > 0 && boosterHits(d, q) == 0 {
			continue
		}
		for _, intent := range d.IntentOrder {
			for _, rule := range d.Intents[intent] {
				if !rule.Re.MatchString(q.Text) {
					continue
				}
				conf := scoreRule(snap.Weights, snap.Weights.ScanBase, d, rule, q)
				if !found || conf > best.Confidence || (conf == best.Confidence && rule.Seq < bestSeq) {
					best = Result{
						Domain:     rule.Domain,
						Intent:     rule.Intent,
						Confidence: conf,
						Pattern:    rule.Expr,
						Stage:      "pattern_scan",
					}
					bestSeq = rule.Seq
					found = true
				}
			}
		}
	}
	return best, found
}

// scoreRule computes base score plus bonuses, clamped:
//   - length: how much of the text the match covers, up to LengthBonusMax
//   - boosters: BoosterBonus per distinct booster word, capped
//   - family: intents in the service_* family share infrastructure vocabulary
//     and earn a small fixed bonus
//   - early: matches that begin within the first third of the text
//
// All bonuses are additive and non-negative, so extra evidence never lowers
// a score
func scoreRule(w catalog.Weights, base float64, d *catalog.Domain, rule catalog.Rule, q *Query) float64 {
	conf := base

	if loc := rule.Re.FindStringIndex(q.Text); loc != nil && len(q.Text) > 0 {
		coverage := float64(loc[1]-loc[0]) / float64(len(q.Text))
		conf += w.LengthBonusMax * coverage
		if loc[0] < len(q.Text)/3 || loc[0] == 0 {
			conf += w.EarlyMatchBonus
		}
	}

	boost := float64(boosterHits(d, q)) * w.BoosterBonus
	if boost > w.BoosterBonusCap {
		boost = w.BoosterBonusCap
	}
	conf += boost

	if strings.HasPrefix(rule.Intent, "service_") {
		conf += w.ServiceFamilyBonus
	}

	if conf > w.ScanClamp {
		conf = w.ScanClamp
	}
	return conf
}

func boosterHits(d *catalog.Domain, q *Query) int {
	n := 0
	for _, b := range d.Boosters {
		if q.Words[b] {
			n++
		}
	}
	return n
}

// fuzzyStage matches the text against canonical phrases through the fuzzy
// capability. Passes through when the capability is unavailable or the best
// score sits below the floor
type fuzzyStage struct {
	matcher capability.FuzzyMatcher
}

func (fuzzyStage) Name() string { return "fuzzy" }

func (f fuzzyStage) Run(ctx context.Context, snap *catalog.Snapshot, q *Query) (Result, bool) {
	if f.matcher == nil || len(snap.FuzzyPhrases) == 0 {
		return Result{}, false
	}
	phrases := make([]string, len(snap.FuzzyPhrases))
	for i, fz := range snap.FuzzyPhrases {
		phrases[i] = fz.Phrase
	}
	m, err := f.matcher.BestMatch(ctx, q.Text, phrases)
	if err != nil || m.Score < snap.Weights.FuzzyMinScore {
		return Result{}, false
	}
	for _, fz := range snap.FuzzyPhrases {
		if fz.Phrase == m.Candidate {
			// similarity gates the match; the reported confidence is the
			// tunable fuzzy weight, not the raw score
			return Result{
				Domain:     fz.Domain,
				Intent:     fz.Intent,
				Confidence: snap.Weights.FuzzyConfidence,
				Pattern:    fz.Phrase,
				Stage:      "fuzzy",
			}, true
		}
	}
	return Result{}, false
}

// fallbackStage always detects, emitting the rejection sentinel so the
// cascade is total
type fallbackStage struct{}

func (fallbackStage) Name() string { return "fallback" }

func (fallbackStage) Run(context.Context, *catalog.Snapshot, *Query) (Result, bool) {
	return Result{Domain: IntentUnknown, Intent: IntentUnknown, Confidence: 0, Stage: "fallback"}, true
}
