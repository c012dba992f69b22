package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/handler"
	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAdminSecret = "super-secret-admin-key"

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) PlaceOrder(ctx context.Context, order entities.Order, ident identity.Identity) (entities.Order, error) {
	args := m.Called(ctx, order, ident)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderService) OrdersFor(ctx context.Context, ident identity.Identity) ([]entities.Order, error) {
	args := m.Called(ctx, ident)
	return args.Get(0).([]entities.Order), args.Error(1)
}

func (m *mockOrderService) AllOrders(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Order), args.Error(1)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id int64, status entities.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// stubVerifier resolves every token to a fixed identity.
type stubVerifier struct {
	ident identity.Identity
}

func (v stubVerifier) Verify(ctx context.Context, token string) (identity.Identity, error) {
	return v.ident, nil
}

func newOrderRouter(svc *mockOrderService, ident identity.Identity) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(logger, stubVerifier{ident: ident}))
	handler.NewOrderHandler(logger, svc, testAdminSecret).Init(r)
	return r
}

func TestOrderHandler_List(t *testing.T) {
	allOrders := []entities.Order{{ID: 1, Reference: "KTV-1"}, {ID: 2, Reference: "KTV-2"}}
	ownOrders := []entities.Order{{ID: 2, Reference: "KTV-2"}}

	testCases := []struct {
		name         string
		adminSecret  string
		bearer       bool
		mockBehavior func(svc *mockOrderService)
		wantLen      int
	}{
		{
			name:        "admin secret returns every order",
			adminSecret: testAdminSecret,
			mockBehavior: func(svc *mockOrderService) {
				svc.On("AllOrders", mock.Anything).Return(allOrders, nil)
			},
			wantLen: 2,
		},
		{
			name:        "admin secret wins over bearer identity",
			adminSecret: testAdminSecret,
			bearer:      true,
			mockBehavior: func(svc *mockOrderService) {
				svc.On("AllOrders", mock.Anything).Return(allOrders, nil)
			},
			wantLen: 2,
		},
		{
			name:   "bearer identity sees own orders",
			bearer: true,
			mockBehavior: func(svc *mockOrderService) {
				svc.On("OrdersFor", mock.Anything, mock.Anything).Return(ownOrders, nil)
			},
			wantLen: 1,
		},
		{
			name:         "wrong secret without bearer yields empty list",
			adminSecret:  "wrong-secret",
			mockBehavior: func(svc *mockOrderService) {},
			wantLen:      0,
		},
		{
			name:         "no credentials yields empty list",
			mockBehavior: func(svc *mockOrderService) {},
			wantLen:      0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockOrderService)
			tc.mockBehavior(svc)

			r := newOrderRouter(svc, identity.Identity{ID: "uuid", Email: "meena@example.com"})

			req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
			if tc.adminSecret != "" {
				req.Header.Set("x-admin-secret", tc.adminSecret)
			}
			if tc.bearer {
				req.Header.Set("Authorization", "Bearer token")
			}
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)

			var orders []handler.Order
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
			assert.Len(t, orders, tc.wantLen)
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Place(t *testing.T) {
	body := `{
		"customer_name": "Meena",
		"address": "12 Bazaar St",
		"city": "Madurai",
		"state": "Tamil Nadu",
		"pincode": "625001",
		"total": 1500,
		"items": [{"id": 1, "name": "Terracotta vase", "price": 500, "quantity": 3}]
	}`

	t.Run("placed with bearer identity", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(entities.Order{ID: 1, Reference: "KTV-1", Status: entities.StatusPending}, nil)

		r := newOrderRouter(svc, identity.Identity{ID: "uuid"})

		req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer token")
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"reference":"KTV-1"`)
	})

	t.Run("rejected without identity", func(t *testing.T) {
		svc := new(mockOrderService)
		r := newOrderRouter(svc, identity.Identity{})

		req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		svc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("total mismatch is a validation failure", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(entities.Order{}, entities.ErrTotalMismatch)

		r := newOrderRouter(svc, identity.Identity{ID: "uuid"})

		req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer token")
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing fields rejected before the service", func(t *testing.T) {
		svc := new(mockOrderService)
		r := newOrderRouter(svc, identity.Identity{ID: "uuid"})

		req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(`{"total": 10}`))
		req.Header.Set("Authorization", "Bearer token")
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_Update(t *testing.T) {
	testCases := []struct {
		name         string
		adminSecret  string
		body         string
		mockBehavior func(svc *mockOrderService)
		wantStatus   int
	}{
		{
			name:        "admin can update",
			adminSecret: testAdminSecret,
			body:        `{"status": "shipped"}`,
			mockBehavior: func(svc *mockOrderService) {
				svc.On("UpdateStatus", mock.Anything, int64(1), entities.StatusShipped).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:         "missing secret forbidden",
			body:         `{"status": "shipped"}`,
			mockBehavior: func(svc *mockOrderService) {},
			wantStatus:   http.StatusForbidden,
		},
		{
			name:         "unknown status rejected",
			adminSecret:  testAdminSecret,
			body:         `{"status": "teleported"}`,
			mockBehavior: func(svc *mockOrderService) {},
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:        "terminal order conflicts",
			adminSecret: testAdminSecret,
			body:        `{"status": "shipped"}`,
			mockBehavior: func(svc *mockOrderService) {
				svc.On("UpdateStatus", mock.Anything, int64(1), entities.StatusShipped).
					Return(entities.ErrOrderTerminal)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:        "missing order",
			adminSecret: testAdminSecret,
			body:        `{"status": "shipped"}`,
			mockBehavior: func(svc *mockOrderService) {
				svc.On("UpdateStatus", mock.Anything, int64(1), entities.StatusShipped).
					Return(entities.ErrOrderNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockOrderService)
			tc.mockBehavior(svc)

			r := newOrderRouter(svc, identity.Identity{})

			req := httptest.NewRequest(http.MethodPut, "/orders/1", strings.NewReader(tc.body))
			if tc.adminSecret != "" {
				req.Header.Set("x-admin-secret", tc.adminSecret)
			}
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}
