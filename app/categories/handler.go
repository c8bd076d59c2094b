package categories

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/specscart/catalog-api/app/api"
	"github.com/specscart/catalog-api/models"
)

type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryHandler struct {
	repo CategoryProvider
	now  func() time.Time
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r, now: time.Now}
}

var errorMessages = api.ErrorMessages{
	NotFound:  "Category not found",
	Duplicate: "Category name already exists",
	Failure:   "failed to process category",
}

func toResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{Failure: "failed to fetch categories"})
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}
	api.WriteJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	category, err := h.repo.GetCategoryByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(*category))
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := api.ReadJSON(w, r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	category, err := models.NewCategory(models.CategoryInput{
		Name:        input.Name,
		Description: input.Description,
	}, h.now().UTC())
	if err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}

	if err := h.repo.CreateCategory(r.Context(), &category); err != nil {
		api.WriteStoreError(w, r, err, api.ErrorMessages{
			Duplicate: errorMessages.Duplicate,
			Failure:   "Failed to create category",
		})
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(category))
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := api.ReadJSON(w, r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	patch := models.CategoryPatch{Name: input.Name, Description: input.Description}
	if err := patch.Validate(); err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}

	category, err := h.repo.UpdateCategory(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(*category))
}

// HandleDelete removes a category. Products referencing it are left as they are.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteStoreError(w, r, err, errorMessages)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Category deleted successfully"})
}
