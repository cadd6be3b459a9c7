// Package modkit provides module wiring and core deps
package modkit

import (
	"incant/internal/platform/config"
	"incant/internal/platform/logger"
	phttp "incant/internal/platform/net/http"
	"incant/internal/platform/store/pg"
)

// Module is the common surface for API modules that can mount routes
// keep this tiny so modules stay decoupled
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)

	// Name returns the module name
	Name() string
}

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// PG is optional; modules that persist must nil check
	PG *pg.PG
}
