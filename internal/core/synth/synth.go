package synth

import (
	"fmt"
	"regexp"

	"incant/internal/core/catalog"
	"incant/internal/core/entity"
	perr "incant/internal/platform/errors"
)

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Command is a synthesized command plus the template that produced it
type Command struct {
	Text       string   `json:"text"`
	TemplateID string   `json:"template_id"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Synthesizer fills template placeholders from an entity bag through the
// domain's adapter. Unfilled placeholders take the adapter default; a
// placeholder with neither entity nor default leaves an explicit marker and
// a warning rather than failing
type Synthesizer struct {
	adapters map[string]Adapter
}

// New builds a synthesizer over the given adapters
func New(adapters ...Adapter) *Synthesizer {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.ID()] = a
	}
	return &Synthesizer{adapters: m}
}

// Defaults returns a synthesizer with the four shipped adapters
func Defaults() *Synthesizer {
	return New(ShellAdapter{}, SQLAdapter{}, DockerAdapter{}, BrowserAdapter{})
}

// Adapter returns the adapter for a domain
func (s *Synthesizer) Adapter(domain string) (Adapter, bool) {
	a, ok := s.adapters[domain]
	return a, ok
}

// Synthesize renders tpl against bag. Total for any registered domain:
// missing entities degrade to defaults or gap markers, never an error
func (s *Synthesizer) Synthesize(tpl catalog.Template, bag *entity.Bag) (Command, error) {
	adapter, ok := s.adapters[tpl.Domain]
	if !ok {
		return Command{}, perr.Newf(perr.ErrorCodeNotFound, "synth: no adapter for domain %q", tpl.Domain)
	}

	cmd := Command{TemplateID: tpl.ID}
	cmd.Text = placeholderRe.ReplaceAllStringFunc(tpl.Text, func(ph string) string {
		name := ph[1 : len(ph)-1]
		if v, ok := bag.Get(name); ok {
			return adapter.Render(name, v)
		}
		if def, ok := adapter.Default(name); ok {
			return def
		}
		cmd.Warnings = append(cmd.Warnings,
			fmt.Sprintf("no entity and no default for placeholder %q", name))
		return "<missing:" + name + ">"
	})
	return cmd, nil
}
