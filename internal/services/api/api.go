// Package api provides the HTTP API for the application
package api

import (
	"time"

	"github.com/go-chi/cors"

	"incant/internal/core/catalog"
	"incant/internal/core/pipeline"
	"incant/internal/modkit"
	"incant/internal/platform/config"
	"incant/internal/platform/logger"
	phttp "incant/internal/platform/net/http"
	"incant/internal/platform/net/middleware"
	"incant/internal/platform/store/pg"
	historydomain "incant/internal/services/history/domain"
	historymod "incant/internal/services/history/module"
	translatemod "incant/internal/services/translate/module"
)

// Options are the API options
type Options struct {
	Config   config.Conf
	Log      logger.Logger
	Provider *catalog.Provider

	// PG is optional; without it translations are not recorded and the
	// history endpoints are not mounted
	PG *pg.PG
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Log: opt.Log,
		Cfg: opt.Config,
		PG:  opt.PG,
	}

	pipe := pipeline.Default(opt.Provider, pipeline.Options{
		Threshold: opt.Config.MayFloat64("THRESHOLD", 0),
	}, opt.Log)

	var recorder historydomain.RecorderPort
	mods := []modkit.Module{}
	if opt.PG != nil {
		hist := historymod.New(deps)
		recorder = hist.Ports().Recorder
		mods = append(mods, hist)
	}
	mods = append(mods, translatemod.New(deps, pipe, recorder))

	r.Route("/api/v1", func(api phttp.Router) {
		api.Use(
			middleware.RequestID,
			middleware.RecoverJSON,
			middleware.AccessLogZerolog(middleware.AccessLogOptions{
				Slow: opt.Config.MayDuration("SLOW_REQUEST", 2*time.Second),
			}),
			cors.Handler(cors.Options{
				AllowedOrigins: opt.Config.MayCSV("CORS_ORIGINS", []string{"*"}),
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
				MaxAge:         300,
			}),
		)
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
