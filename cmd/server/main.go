package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"atlas/internal/catalog/handler"
	"atlas/internal/catalog/service"
	"atlas/internal/catalog/source"
	"atlas/internal/platform/config"
	"atlas/internal/platform/httpserver"
	"atlas/internal/platform/logger"
	"atlas/internal/platform/metrics"
	httptransport "atlas/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Catalog logic lives in internal/catalog packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration error", "error", err.Error())
		os.Exit(1)
	}

	m := metrics.New()

	remote := source.NewHTTPSource(cfg.Catalog.CountriesURL, cfg.Catalog.RequestTimeout)
	retrier := source.NewRetrier(remote, cfg.Catalog.MaxRetries, cfg.Catalog.RetryDelay, log, m)
	fallback := source.NewStatic(log)
	controller := service.New(retrier, fallback, cfg.Catalog.SearchDebounce, log, m)

	catalogHandler := handler.New(controller, log)
	router := httptransport.NewRouter(catalogHandler, log, m)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return controller.Run(ctx)
	})

	g.Go(func() error {
		log.Info("starting atlas", "addr", cfg.Addr, "countries_url", cfg.Catalog.CountriesURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Warm the catalog on startup; failures degrade to the bundled dataset.
	controller.Load()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
