// Package module wires translate into the API using modkit
package module

import (
	"net/http"

	"incant/internal/core/pipeline"
	modkit "incant/internal/modkit"
	"incant/internal/modkit/httpkit"
	str "incant/internal/platform/strings"
	historydomain "incant/internal/services/history/domain"
	"incant/internal/services/translate/domain"
	translatehttp "incant/internal/services/translate/http"
	translatesvc "incant/internal/services/translate/service"
)

// Ports exposed by the translate module
type Ports struct {
	Translator domain.TranslatorPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	register func(httpkit.Router)
	ports    Ports
}

// New constructs a translate module over a shared pipeline. rec may be nil
func New(deps modkit.Deps, pipe *pipeline.Pipeline, rec historydomain.RecorderPort, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("translate"),
	}, opts...)...)

	svc := translatesvc.New(pipe, rec, deps.Log)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  Ports{Translator: svc},
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		translatehttp.Register(r, svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, m.register)
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports returns the module's cross wiring surface
func (m *Module) Ports() Ports { return m.ports }
