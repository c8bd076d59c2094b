package main

import (
	"context"
	"fmt"

	"github.com/specscart/catalog-api/app/catalog"
	"github.com/specscart/catalog-api/app/categories"
	"github.com/specscart/catalog-api/app/config"
	"github.com/specscart/catalog-api/app/health"
	"github.com/specscart/catalog-api/models"
	"github.com/specscart/catalog-api/models/mongostore"
	"github.com/specscart/catalog-api/pkg/logger"
)

type categoryStore interface {
	categories.CategoryProvider
	categories.CategoryFinder
}

// store bundles the repositories of the configured driver.
type store struct {
	products   catalog.ProductProvider
	categories categoryStore
	ping       health.PingFunc
	close      func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := models.OpenPostgres(cfg.Postgres.DSN, logger.Gorm(cfg.Postgres.SlowQuery))
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := models.EnsureSchema(db); err != nil {
				return nil, fmt.Errorf("ensure schema: %w", err)
			}
		}
		return &store{
			products:   models.NewProductsRepository(db),
			categories: models.NewCategoriesRepository(db),
			ping: func(ctx context.Context) error {
				return models.PingPostgres(ctx, db)
			},
			close: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := s.EnsureIndexes(ctx); err != nil {
				return nil, fmt.Errorf("ensure indexes: %w", err)
			}
		}
		return &store{products: s, categories: s, ping: s.Ping, close: s.Disconnect}, nil

	case config.DriverMemory:
		s := models.NewMemoryStore()
		return &store{
			products:   s,
			categories: s,
			ping:       s.Ping,
			close:      func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
