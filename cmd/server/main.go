package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/specscart/catalog-api/app/catalog"
	"github.com/specscart/catalog-api/app/categories"
	"github.com/specscart/catalog-api/app/config"
	"github.com/specscart/catalog-api/app/health"
	"github.com/specscart/catalog-api/app/router"
	"github.com/specscart/catalog-api/pkg/logger"
)

func main() {
	// A missing .env is fine outside local runs
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Level:       cfg.LogLevel,
	})
	logger.Info().
		Str("env", string(cfg.Environment)).
		Str("store", cfg.StoreDriver).
		Str("addr", cfg.HTTP.Addr).
		Msg("starting catalog api")

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open store")
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			logger.Error().Err(err).Msg("closing store")
		}
	}()

	resolver := categories.NewResolver(st.categories)
	handler := router.New(router.Handlers{
		Catalog:    catalog.NewCatalogHandler(st.products, st.categories, resolver),
		Categories: categories.NewCategoryHandler(st.categories),
		Health:     health.NewHealthHandler(st.ping),
	}, router.Options{CORSOrigins: cfg.HTTP.CORSOrigins})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info().Str("address", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}
	logger.Info().Msg("server stopped gracefully")
}
