package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/specscart/catalog-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Categories []models.Category
	CreateErr  error
	ListErr    error
	Err        error
	LastSaved  *models.Category
	LastPatch  *models.CategoryPatch
	DeletedID  string
}

func (m *MockCategoryRepo) GetAllCategories(context.Context) ([]models.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Categories, nil
}

func (m *MockCategoryRepo) GetCategoryByID(_ context.Context, id string) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Categories {
		if c.ID == id {
			category := c
			return &category, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryRepo) CreateCategory(_ context.Context, cat *models.Category) error {
	m.LastSaved = cat
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cat.ID = "generated-id"
	return nil
}

func (m *MockCategoryRepo) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	m.LastPatch = &patch
	c, err := m.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	return c, nil
}

func (m *MockCategoryRepo) DeleteCategory(ctx context.Context, id string) error {
	if _, err := m.GetCategoryByID(ctx, id); err != nil {
		return err
	}
	m.DeletedID = id
	return nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// --- Tests: GET /categories ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success with multiple categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Categories: []models.Category{
						{ID: "c1", Name: "Clothing"},
						{ID: "c2", Name: "Shoes"},
					},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 2)
				assert.Equal(t, "c1", resp[0].ID)
				assert.Equal(t, "Shoes", resp[1].Name)
			},
		},
		{
			name: "Success with empty list",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Categories: []models.Category{},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `[]`, rec.Body.String())
			},
		},
		{
			name: "Repository error",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					ListErr: errors.New("db down"),
				}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "failed to fetch categories", errResp["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)
			req := httptest.NewRequest("GET", "/categories", nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetAll(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}

// --- Tests: POST /categories ---

func TestHandleCreate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name               string
		requestBody        string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockCategoryRepo)
	}{
		{
			name:        "Success",
			requestBody: `{"name":"Accessories","description":"Bags and belts"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "generated-id", resp.ID)
				assert.Equal(t, "Accessories", resp.Name)
				assert.True(t, now.Equal(resp.CreatedAt))
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.NotNil(t, repo.LastSaved)
				assert.Equal(t, "Bags and belts", repo.LastSaved.Description)
			},
		},
		{
			name:        "Invalid JSON body",
			requestBody: `{invalid json`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Invalid JSON body", errResp["error"])
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastSaved, "CreateCategory should not be called with invalid JSON")
			},
		},
		{
			name:        "Missing name",
			requestBody: `{"description":"nameless"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]any
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "name is required", errResp["error"])
				assert.Len(t, errResp["details"], 1)
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastSaved, "CreateCategory should not be called with missing fields")
			},
		},
		{
			name:        "Duplicate name",
			requestBody: `{"name":"Shoes"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{CreateErr: models.ErrDuplicateKey}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Category name already exists", errResp["error"])
			},
		},
		{
			name:        "Repository error on create",
			requestBody: `{"name":"Toys"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{CreateErr: errors.New("insert failed")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Failed to create category", errResp["error"])
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.NotNil(t, repo.LastSaved, "CreateCategory should have been called")
				assert.Equal(t, "Toys", repo.LastSaved.Name)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)
			handler.now = func() time.Time { return now }
			req := httptest.NewRequest("POST", "/categories", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}

			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

// --- Tests: /categories/{id} ---

func TestHandleGetUpdateDelete(t *testing.T) {
	newRepo := func() *MockCategoryRepo {
		return &MockCategoryRepo{Categories: []models.Category{{ID: "c1", Name: "Shoes", Description: "Footwear"}}}
	}

	t.Run("Get", func(t *testing.T) {
		handler := NewCategoryHandler(newRepo())
		rec := httptest.NewRecorder()
		handler.HandleGet(rec, withURLParam(httptest.NewRequest("GET", "/categories/c1", nil), "id", "c1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp CategoryResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Footwear", resp.Description)
	})

	t.Run("Get missing", func(t *testing.T) {
		handler := NewCategoryHandler(newRepo())
		rec := httptest.NewRecorder()
		handler.HandleGet(rec, withURLParam(httptest.NewRequest("GET", "/categories/c9", nil), "id", "c9"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Category not found"}`, rec.Body.String())
	})

	t.Run("Update description only", func(t *testing.T) {
		repo := newRepo()
		handler := NewCategoryHandler(repo)
		rec := httptest.NewRecorder()
		req := withURLParam(httptest.NewRequest("PUT", "/categories/c1", strings.NewReader(`{"description":"Boots"}`)), "id", "c1")
		handler.HandleUpdate(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp CategoryResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Shoes", resp.Name)
		assert.Equal(t, "Boots", resp.Description)
		require.NotNil(t, repo.LastPatch)
		assert.Nil(t, repo.LastPatch.Name)
	})

	t.Run("Update with empty name", func(t *testing.T) {
		repo := newRepo()
		handler := NewCategoryHandler(repo)
		rec := httptest.NewRecorder()
		req := withURLParam(httptest.NewRequest("PUT", "/categories/c1", strings.NewReader(`{"name":" "}`)), "id", "c1")
		handler.HandleUpdate(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, repo.LastPatch, "UpdateCategory should not be called")
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo()
		handler := NewCategoryHandler(repo)
		rec := httptest.NewRecorder()
		handler.HandleDelete(rec, withURLParam(httptest.NewRequest("DELETE", "/categories/c1", nil), "id", "c1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Category deleted successfully"}`, rec.Body.String())
		assert.Equal(t, "c1", repo.DeletedID)
	})

	t.Run("Delete missing", func(t *testing.T) {
		handler := NewCategoryHandler(newRepo())
		rec := httptest.NewRecorder()
		handler.HandleDelete(rec, withURLParam(httptest.NewRequest("DELETE", "/categories/c9", nil), "id", "c9"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
