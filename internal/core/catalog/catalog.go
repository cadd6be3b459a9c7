// Package catalog loads and compiles the pattern catalog: domain -> intent ->
// patterns, per-domain priority intents and booster keywords, guard rules,
// templates and scoring weights. The compiled Snapshot is immutable; a reload
// builds a fresh Snapshot and swaps the shared reference atomically.
// Malformed configuration fails here, at load time, never at query time
package catalog

import (
	_ "embed"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	perr "incant/internal/platform/errors"
)

//go:embed catalog.json
var embedded []byte

// raw JSON shapes

type rawIntent struct {
	Patterns []string `json:"patterns"`
}

type rawDomain struct {
	Boosters        []string             `json:"boosters"`
	PriorityIntents []string             `json:"priority_intents"`
	Intents         map[string]rawIntent `json:"intents"`
}

type rawFastPath struct {
	Phrase string `json:"phrase"`
	Domain string `json:"domain"`
	Intent string `json:"intent"`
}

type rawContextFlag struct {
	Flag  string   `json:"flag"`
	AnyOf []string `json:"any_of"`
}

type rawGuard struct {
	Domain       string `json:"domain"`
	Intent       string `json:"intent"`
	Pattern      string `json:"pattern"`
	RequiresFlag string `json:"requires_flag,omitempty"`
}

type rawOverride struct {
	Entity string `json:"entity"`
	Equals string `json:"equals"`
	Use    string `json:"use"`
}

type rawTemplate struct {
	ID        string        `json:"id"`
	Domain    string        `json:"domain"`
	Intent    string        `json:"intent"`
	Text      string        `json:"text"`
	Primary   bool          `json:"primary,omitempty"`
	Overrides []rawOverride `json:"overrides,omitempty"`
}

type rawFuzzyPhrase struct {
	Phrase string `json:"phrase"`
	Domain string `json:"domain"`
	Intent string `json:"intent"`
}

type rawCatalog struct {
	Version      int                  `json:"version"`
	Weights      Weights              `json:"weights"`
	FastPath     []rawFastPath        `json:"fastpath"`
	ContextFlags []rawContextFlag     `json:"context_flags"`
	HighRisk     []rawGuard           `json:"high_risk"`
	ToolGuards   []rawGuard           `json:"tool_guards"`
	ActionGuards []rawGuard           `json:"action_guards"`
	Domains      map[string]rawDomain `json:"domains"`
	Templates    []rawTemplate        `json:"templates"`
	FuzzyPhrases []rawFuzzyPhrase     `json:"fuzzy_phrases"`
}

// Weights are the scoring constants of the cascade. Empirically tuned values
// recovered from prototype notes, exposed as configurable defaults rather
// than literals; zero fields fall back to DefaultWeights
type Weights struct {
	FastPathConfidence float64 `json:"fastpath_confidence"`
	GuardConfidence    float64 `json:"guard_confidence"`
	PriorityBase       float64 `json:"priority_base"`
	ScanBase           float64 `json:"scan_base"`
	LengthBonusMax     float64 `json:"length_bonus_max"`
	ServiceFamilyBonus float64 `json:"service_family_bonus"`
	BoosterBonus       float64 `json:"booster_bonus"`
	BoosterBonusCap    float64 `json:"booster_bonus_cap"`
	EarlyMatchBonus    float64 `json:"early_match_bonus"`
	ScanClamp          float64 `json:"scan_clamp"`
	FuzzyMinScore      float64 `json:"fuzzy_min_score"`
	FuzzyConfidence    float64 `json:"fuzzy_confidence"`
	AcceptThreshold    float64 `json:"accept_threshold"`
}

// DefaultWeights returns the shipped scoring constants
func DefaultWeights() Weights {
	return Weights{
		FastPathConfidence: 0.90,
		GuardConfidence:    0.92,
		PriorityBase:       0.85,
		ScanBase:           0.70,
		LengthBonusMax:     0.20,
		ServiceFamilyBonus: 0.05,
		BoosterBonus:       0.05,
		BoosterBonusCap:    0.15,
		EarlyMatchBonus:    0.05,
		ScanClamp:          0.95,
		FuzzyMinScore:      0.85,
		FuzzyConfidence:    0.85,
		AcceptThreshold:    0.50,
	}
}

// compiled shapes

// FastPath is a high-precision phrase fragment, terminal on match
type FastPath struct {
	Phrase string
	Domain string
	Intent string
}

// ContextFlag computes an auxiliary boolean from keyword presence
type ContextFlag struct {
	Flag  string
	AnyOf []string
}

// Guard is a compiled high-precision rule (high-risk, tool, or action)
type Guard struct {
	Domain       string
	Intent       string
	Expr         string
	RequiresFlag string
	Re           *regexp.Regexp
}

// Rule is one compiled (domain, intent, pattern) triple. Seq is registration
// order across the whole catalog and breaks score ties deterministically
type Rule struct {
	Domain string
	Intent string
	Expr   string
	Seq    int
	Re     *regexp.Regexp
}

// Domain holds one target command language's configuration
type Domain struct {
	ID              string
	Boosters        []string
	PriorityIntents []string
	Intents         map[string][]Rule
	IntentOrder     []string
}

// Override switches the selected template when an entity predicate holds
type Override struct {
	Entity string
	Equals string
	Use    string
}

// Template is a parameterized command string with named placeholders
type Template struct {
	ID        string
	Domain    string
	Intent    string
	Text      string
	Overrides []Override
}

// FuzzyPhrase is a canonical utterance the fuzzy fallback may match against
type FuzzyPhrase struct {
	Phrase string
	Domain string
	Intent string
}

// Snapshot is the compiled, immutable catalog. Load once, share by
// reference; hot reload builds a new Snapshot and swaps atomically
type Snapshot struct {
	Version      int
	Weights      Weights
	FastPath     []FastPath
	ContextFlags []ContextFlag
	HighRisk     []Guard
	ToolGuards   []Guard
	ActionGuards []Guard
	Domains      map[string]*Domain
	DomainOrder  []string
	Templates    map[string]Template
	primary      map[string]string // domain/intent -> template id
	FuzzyPhrases []FuzzyPhrase
}

// Load compiles the embedded default catalog
func Load() (*Snapshot, error) {
	return Parse(embedded)
}

// Parse compiles a catalog from raw JSON, failing fast on any malformed rule
func Parse(data []byte) (*Snapshot, error) {
	var rc rawCatalog
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfiguration, "catalog: parse json")
	}
	if rc.Version != 1 {
		return nil, perr.Configf("catalog: unsupported version %d (want 1)", rc.Version)
	}

	s := &Snapshot{
		Version:   rc.Version,
		Weights:   mergeWeights(rc.Weights),
		Domains:   make(map[string]*Domain, len(rc.Domains)),
		Templates: make(map[string]Template, len(rc.Templates)),
		primary:   make(map[string]string, len(rc.Templates)),
	}

	for _, fp := range rc.FastPath {
		if fp.Phrase == "" || fp.Domain == "" || fp.Intent == "" {
			return nil, perr.Configf("catalog: fastpath entry needs phrase, domain and intent")
		}
		s.FastPath = append(s.FastPath, FastPath(fp))
	}

	for _, cf := range rc.ContextFlags {
		if cf.Flag == "" || len(cf.AnyOf) == 0 {
			return nil, perr.Configf("catalog: context flag %q needs keywords", cf.Flag)
		}
		s.ContextFlags = append(s.ContextFlags, ContextFlag(cf))
	}
	flags := make(map[string]bool, len(s.ContextFlags))
	for _, cf := range s.ContextFlags {
		flags[cf.Flag] = true
	}

	var err error
	if s.HighRisk, err = compileGuards("high_risk", rc.HighRisk, flags); err != nil {
		return nil, err
	}
	if s.ToolGuards, err = compileGuards("tool_guards", rc.ToolGuards, flags); err != nil {
		return nil, err
	}
	if s.ActionGuards, err = compileGuards("action_guards", rc.ActionGuards, flags); err != nil {
		return nil, err
	}

	// Registration order is load order: domains and intents sorted by name,
	// then pattern array order. An explicit arbitrary rule so score ties
	// always resolve the same way
	s.DomainOrder = sortedKeys(rc.Domains)
	seq := 0
	for _, id := range s.DomainOrder {
		rd := rc.Domains[id]
		d := &Domain{
			ID:          id,
			Boosters:    lowerAll(rd.Boosters),
			IntentOrder: sortedKeys(rd.Intents),
			Intents:     make(map[string][]Rule, len(rd.Intents)),
		}
		for _, intent := range d.IntentOrder {
			for _, expr := range rd.Intents[intent].Patterns {
				re, err := regexp.Compile(expr)
				if err != nil {
					return nil, perr.Wrapf(err, perr.ErrorCodeConfiguration,
						"catalog: compile %s/%s %q", id, intent, expr)
				}
				seq++
				d.Intents[intent] = append(d.Intents[intent], Rule{
					Domain: id, Intent: intent, Expr: expr, Seq: seq, Re: re,
				})
			}
		}
		for _, pi := range rd.PriorityIntents {
			if _, ok := d.Intents[pi]; !ok {
				return nil, perr.Configf("catalog: domain %s priority intent %q has no patterns", id, pi)
			}
			d.PriorityIntents = append(d.PriorityIntents, pi)
		}
		s.Domains[id] = d
	}

	for _, rt := range rc.Templates {
		if rt.ID == "" || rt.Domain == "" || rt.Intent == "" || rt.Text == "" {
			return nil, perr.Configf("catalog: template %q needs id, domain, intent and text", rt.ID)
		}
		if _, dup := s.Templates[rt.ID]; dup {
			return nil, perr.Configf("catalog: duplicate template id %q", rt.ID)
		}
		t := Template{ID: rt.ID, Domain: rt.Domain, Intent: rt.Intent, Text: rt.Text}
		for _, ov := range rt.Overrides {
			if ov.Entity == "" || ov.Use == "" {
				return nil, perr.Configf("catalog: template %q override needs entity and use", rt.ID)
			}
			t.Overrides = append(t.Overrides, Override(ov))
		}
		s.Templates[rt.ID] = t
		key := rt.Domain + "/" + rt.Intent
		if rt.Primary || s.primary[key] == "" {
			s.primary[key] = rt.ID
		}
	}
	// overrides must reference templates that exist
	for _, t := range s.Templates {
		for _, ov := range t.Overrides {
			if _, ok := s.Templates[ov.Use]; !ok {
				return nil, perr.Configf("catalog: template %q override references unknown %q", t.ID, ov.Use)
			}
		}
	}

	for _, fz := range rc.FuzzyPhrases {
		if fz.Phrase == "" || fz.Domain == "" || fz.Intent == "" {
			return nil, perr.Configf("catalog: fuzzy phrase entry needs phrase, domain and intent")
		}
		s.FuzzyPhrases = append(s.FuzzyPhrases, FuzzyPhrase(fz))
	}

	return s, nil
}

// Primary returns the primary template id for (domain, intent)
func (s *Snapshot) Primary(domain, intent string) (string, bool) {
	id, ok := s.primary[domain+"/"+intent]
	return id, ok
}

// Intents returns a domain's intents in registration order; nil for unknown
func (s *Snapshot) Intents(domain string) []string {
	d, ok := s.Domains[domain]
	if !ok {
		return nil
	}
	return d.IntentOrder
}

func compileGuards(section string, in []rawGuard, flags map[string]bool) ([]Guard, error) {
	out := make([]Guard, 0, len(in))
	for _, g := range in {
		if g.Domain == "" || g.Intent == "" || g.Pattern == "" {
			return nil, perr.Configf("catalog: %s entry needs domain, intent and pattern", section)
		}
		if g.RequiresFlag != "" && !flags[g.RequiresFlag] {
			return nil, perr.Configf("catalog: %s %s/%s requires undeclared flag %q",
				section, g.Domain, g.Intent, g.RequiresFlag)
		}
		re, err := regexp.Compile(g.Pattern)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeConfiguration,
				"catalog: compile %s %s/%s %q", section, g.Domain, g.Intent, g.Pattern)
		}
		out = append(out, Guard{
			Domain: g.Domain, Intent: g.Intent, Expr: g.Pattern,
			RequiresFlag: g.RequiresFlag, Re: re,
		})
	}
	return out, nil
}

func mergeWeights(w Weights) Weights {
	def := DefaultWeights()
	if w.FastPathConfidence == 0 {
		w.FastPathConfidence = def.FastPathConfidence
	}
	if w.GuardConfidence == 0 {
		w.GuardConfidence = def.GuardConfidence
	}
	if w.PriorityBase == 0 {
		w.PriorityBase = def.PriorityBase
	}
	if w.ScanBase == 0 {
		w.ScanBase = def.ScanBase
	}
	if w.LengthBonusMax == 0 {
		w.LengthBonusMax = def.LengthBonusMax
	}
	if w.ServiceFamilyBonus == 0 {
		w.ServiceFamilyBonus = def.ServiceFamilyBonus
	}
	if w.BoosterBonus == 0 {
		w.BoosterBonus = def.BoosterBonus
	}
	if w.BoosterBonusCap == 0 {
		w.BoosterBonusCap = def.BoosterBonusCap
	}
	if w.EarlyMatchBonus == 0 {
		w.EarlyMatchBonus = def.EarlyMatchBonus
	}
	if w.ScanClamp == 0 {
		w.ScanClamp = def.ScanClamp
	}
	if w.FuzzyMinScore == 0 {
		w.FuzzyMinScore = def.FuzzyMinScore
	}
	if w.FuzzyConfidence == 0 {
		w.FuzzyConfidence = def.FuzzyConfidence
	}
	if w.AcceptThreshold == 0 {
		w.AcceptThreshold = def.AcceptThreshold
	}
	return w
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
