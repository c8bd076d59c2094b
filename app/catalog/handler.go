package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/specscart/catalog-api/app/api"
	"github.com/specscart/catalog-api/models"
	"github.com/specscart/catalog-api/pkg/logger"
)

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByKey(ctx context.Context, key string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	CreateProducts(ctx context.Context, products []models.Product) error
	UpdateByKey(ctx context.Context, key string, patch models.ProductPatch) (*models.Product, error)
	DeleteByKey(ctx context.Context, key string) (*models.Product, error)
}

// CategoryLookup checks category references by id.
type CategoryLookup interface {
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
}

type CatalogHandler struct {
	repo       ProductProvider
	categories CategoryLookup
	resolver   CategoryResolver
	now        func() time.Time
}

func NewCatalogHandler(r ProductProvider, c CategoryLookup, res CategoryResolver) *CatalogHandler {
	return &CatalogHandler{
		repo:       r,
		categories: c,
		resolver:   res,
		now:        time.Now,
	}
}

var errorMessages = api.ErrorMessages{
	NotFound:  "Product not found",
	Duplicate: "productKey already exists",
	Failure:   "failed to process product",
}

// HandleGet lists every product, paginated (default limit 10).
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	page := ParsePagination(r.URL.Query(), defaultListLimit)
	h.writePage(w, r, page, models.ProductFilters{})
}

// HandleFilter searches products by text, category names, brands and price range.
func (h *CatalogHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := ParsePagination(q, defaultFilterLimit)

	filters, err := BuildFilters(r.Context(), q, h.resolver)
	if err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{Failure: "failed to get products"})
		return
	}
	h.writePage(w, r, page, filters)
}

func (h *CatalogHandler) writePage(w http.ResponseWriter, r *http.Request, page Pagination, filters models.ProductFilters) {
	res, total, err := h.repo.GetFilteredProducts(r.Context(), page.Offset(), page.Limit, filters)
	if err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{Failure: "failed to get products"})
		return
	}

	api.WriteJSON(w, http.StatusOK, Response{
		TotalProducts: total,
		TotalPages:    page.TotalPages(total),
		CurrentPage:   page.Page,
		Products:      toProducts(res),
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{NotFound: errorMessages.NotFound, Failure: "Failed to retrieve product"})
		return
	}
	api.WriteJSON(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleGetByKey(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetByKey(r.Context(), chi.URLParam(r, "productKey"))
	if err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{NotFound: errorMessages.NotFound, Failure: "Failed to retrieve product"})
		return
	}
	api.WriteJSON(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := api.ReadJSON(w, r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	product, err := models.NewProduct(req.input(), h.now().UTC())
	if err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}

	category, ok := h.checkCategory(w, r, product.CategoryID)
	if !ok {
		return
	}

	if err := h.repo.CreateProduct(r.Context(), &product); err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{Duplicate: errorMessages.Duplicate, Failure: "Failed to create product"})
		return
	}
	product.Category = *category
	api.WriteJSON(w, http.StatusCreated, toProduct(product))
}

func (h *CatalogHandler) HandleUpdateByKey(w http.ResponseWriter, r *http.Request) {
	var req ProductUpdateRequest
	if err := api.ReadJSON(w, r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	patch := req.patch()
	if err := patch.Validate(); err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}
	if patch.CategoryID != nil {
		if _, ok := h.checkCategory(w, r, strings.TrimSpace(*patch.CategoryID)); !ok {
			return
		}
	}

	product, err := h.repo.UpdateByKey(r.Context(), chi.URLParam(r, "productKey"), patch)
	if err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{NotFound: errorMessages.NotFound, Failure: "Failed to update product"})
		return
	}
	api.WriteJSON(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleDeleteByKey(w http.ResponseWriter, r *http.Request) {
	if _, err := h.repo.DeleteByKey(r.Context(), chi.URLParam(r, "productKey")); err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{NotFound: errorMessages.NotFound, Failure: "Failed to delete product"})
		return
	}
	api.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Product deleted successfully"})
}

// HandleBulkCreate imports many products at once. Rows whose category name does not
// resolve are skipped and reported; the remaining rows are inserted together or not at all.
func (h *CatalogHandler) HandleBulkCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	rows, err := DecodeBatch(body)
	if err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}

	plan, err := ResolveRows(r.Context(), rows, h.resolver)
	if err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{Failure: "Failed to import products"})
		return
	}
	if len(plan.Accepted) == 0 {
		api.WriteJSON(w, http.StatusBadRequest, BulkErrorResponse{
			Error:   "No valid products to insert",
			Skipped: nonNil(plan.Skipped),
		})
		return
	}

	products, err := plan.BuildProducts(h.now().UTC())
	if err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}
	if err := h.repo.CreateProducts(r.Context(), products); err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{Duplicate: errorMessages.Duplicate, Failure: "Failed to import products"})
		return
	}

	logger.Info().
		Int("inserted", len(products)).
		Int("skipped", len(plan.Skipped)).
		Msg("bulk import completed")

	api.WriteJSON(w, http.StatusCreated, BulkResponse{
		Inserted: len(products),
		Products: toProducts(products),
		Skipped:  nonNil(plan.Skipped),
	})
}

// checkCategory answers 400 when id names no stored category.
func (h *CatalogHandler) checkCategory(w http.ResponseWriter, r *http.Request, id string) (*models.Category, bool) {
	category, err := h.categories.GetCategoryByID(r.Context(), id)
	if errors.Is(err, models.ErrCategoryNotFound) {
		api.WriteError(w, http.StatusBadRequest, "Invalid category ID")
		return nil, false
	}
	if err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{Failure: "Failed to check category"})
		return nil, false
	}
	return category, true
}

func nonNil(rows []SkippedRow) []SkippedRow {
	if rows == nil {
		return []SkippedRow{}
	}
	return rows
}
