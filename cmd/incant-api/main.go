// Command incant-api serves the translation API
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"incant/internal/core/catalog"
	"incant/internal/platform/config"
	"incant/internal/platform/logger"
	phttp "incant/internal/platform/net/http"
	"incant/internal/platform/store/pg"
	"incant/internal/services/api"
)

func main() {
	_ = godotenv.Load()

	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	apiCfg := root.Prefix("INCANT_API_")
	pgCfg := root.Prefix("INCANT_PGSQL_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// catalog: embedded by default, file + hot reload when a path is set
	snap, err := catalog.Load()
	catalogPath := apiCfg.MayString("CATALOG_PATH", "")
	if catalogPath != "" {
		snap, err = catalog.LoadFile(catalogPath)
	}
	if err != nil {
		l.Panic().Err(err).Msg("catalog load failed")
	}
	provider := catalog.NewProvider(snap, *l)
	if catalogPath != "" {
		if err := provider.Watch(ctx, catalogPath); err != nil {
			l.Warn().Err(err).Str("path", catalogPath).Msg("catalog watch disabled")
		}
	}

	// postgres is optional: without it the API translates but records nothing
	var db *pg.PG
	if url := pgCfg.MayString("DBURL", ""); url != "" {
		db, err = pg.Open(ctx, pg.Config{
			URL:      url,
			MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowMs:   pgCfg.MayInt("SLOW_MS", 500),
		}, pg.Tracer(*l), nil)
		if err != nil {
			l.Panic().Err(err).Msg("pg open failed")
		}
		defer db.Close()
	}

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:   apiCfg,
		Log:      *l,
		Provider: provider,
		PG:       db,
	})

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			l.Error().Err(err).Msg("shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		os.Exit(1)
	}
}
