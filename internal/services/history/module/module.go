// Package module wires history into the API using modkit
package module

import (
	"net/http"

	modkit "incant/internal/modkit"
	"incant/internal/modkit/httpkit"
	str "incant/internal/platform/strings"
	"incant/internal/services/history/domain"
	historyhttp "incant/internal/services/history/http"
	historyrepo "incant/internal/services/history/repo"
	historysvc "incant/internal/services/history/service"
)

// Ports exposed by the history module for cross wiring
type Ports struct {
	Recorder domain.RecorderPort
	Reader   domain.ReaderPort
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

// New constructs a history module; deps.PG must be open
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("history"),
		modkit.WithPrefix("/history"),
	}, opts...)...)

	repo := historyrepo.NewPG(deps.PG)
	svc := historysvc.New(repo, historysvc.Config{
		HardLimit: deps.Cfg.MayInt("HISTORY_HARD_LIMIT", 200),
	}, deps.Log)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  Ports{Recorder: svc, Reader: svc},
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		historyhttp.Register(r, svc)
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
