package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductService struct{ mock.Mock }

func (m *mockProductService) Products(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Product), args.Error(1)
}

func (m *mockProductService) ProductBySlug(ctx context.Context, slug string) (entities.Product, []entities.Review, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(entities.Product), args.Get(1).([]entities.Review), args.Error(2)
}

func (m *mockProductService) CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, p entities.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductService) AddReview(ctx context.Context, review entities.Review) (entities.Review, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(entities.Review), args.Error(1)
}

func newProductRouter(svc *mockProductService, protectCatalog bool) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	handler.NewProductHandler(logger, svc, testAdminSecret, protectCatalog).Init(r)
	return r
}

const productBody = `{
	"slug": "terracotta-vase",
	"name": "Terracotta vase",
	"price": 500,
	"category": "Pottery",
	"category_slug": "pottery"
}`

func TestProductHandler_CatalogProtection(t *testing.T) {
	t.Run("protected catalog rejects anonymous mutation", func(t *testing.T) {
		svc := new(mockProductService)
		r := newProductRouter(svc, true)

		req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(productBody))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
		svc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("protected catalog accepts admin mutation", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(entities.Product{ID: 1, Slug: "terracotta-vase"}, nil)
		r := newProductRouter(svc, true)

		req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(productBody))
		req.Header.Set("x-admin-secret", testAdminSecret)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("unprotected catalog accepts anonymous mutation", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(entities.Product{ID: 1, Slug: "terracotta-vase"}, nil)
		r := newProductRouter(svc, false)

		req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(productBody))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("reads stay open either way", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("Products", mock.Anything).Return([]entities.Product{}, nil)
		r := newProductRouter(svc, true)

		req := httptest.NewRequest(http.MethodGet, "/products/", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestProductHandler_BySlug(t *testing.T) {
	t.Run("found with reviews", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("ProductBySlug", mock.Anything, "terracotta-vase").
			Return(
				entities.Product{ID: 1, Slug: "terracotta-vase"},
				[]entities.Review{{ID: 1, ProductID: 1, Rating: 5}},
				nil,
			)
		r := newProductRouter(svc, true)

		req := httptest.NewRequest(http.MethodGet, "/products/terracotta-vase", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"slug":"terracotta-vase"`)
		assert.Contains(t, rr.Body.String(), `"reviews"`)
	})

	t.Run("unknown slug", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("ProductBySlug", mock.Anything, "missing").
			Return(entities.Product{}, []entities.Review(nil), entities.ErrProductNotFound)
		r := newProductRouter(svc, true)

		req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestProductHandler_UpdateBadID(t *testing.T) {
	svc := new(mockProductService)
	r := newProductRouter(svc, true)

	req := httptest.NewRequest(http.MethodPut, "/products/not-a-number", strings.NewReader(productBody))
	req.Header.Set("x-admin-secret", testAdminSecret)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
}
