package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/specscart/catalog-api/app/catalog"
	"github.com/specscart/catalog-api/app/categories"
	"github.com/specscart/catalog-api/app/middleware"
)

type Handlers struct {
	Catalog    *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	Health     http.Handler
}

type Options struct {
	CORSOrigins []string
}

// New wires every route. Write routes are open; access control is left to the
// deployment in front of the service.
func New(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if h.Health != nil {
		r.Method(http.MethodGet, "/health", h.Health)
	}

	r.Route("/categories", func(r chi.Router) {
		r.Post("/", h.Categories.HandleCreate)
		r.Get("/", h.Categories.HandleGetAll)
		r.Get("/{id}", h.Categories.HandleGet)
		r.Put("/{id}", h.Categories.HandleUpdate)
		r.Delete("/{id}", h.Categories.HandleDelete)
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.Catalog.HandleCreate)
		r.Get("/", h.Catalog.HandleGet)
		// /products/products is the historical search path.
		r.Get("/products", h.Catalog.HandleFilter)
		r.Get("/filter", h.Catalog.HandleFilter)
		r.Post("/bulk", h.Catalog.HandleBulkCreate)
		r.Get("/key/{productKey}", h.Catalog.HandleGetByKey)
		r.Put("/key/{productKey}", h.Catalog.HandleUpdateByKey)
		r.Delete("/key/{productKey}", h.Catalog.HandleDeleteByKey)
		r.Get("/{id}", h.Catalog.HandleGetProduct)
	})

	return r
}
