package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/internal/middleware"
	"github.com/santhosharam/kottravai-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, order entities.Order, ident identity.Identity) (entities.Order, error)
	OrdersFor(ctx context.Context, ident identity.Identity) ([]entities.Order, error)
	AllOrders(ctx context.Context) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, id int64, status entities.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error
}

type OrderHandler struct {
	logger      *slog.Logger
	validate    *validator.Validate
	svc         OrderService
	adminSecret string
}

func NewOrderHandler(logger *slog.Logger, svc OrderService, adminSecret string) *OrderHandler {
	return &OrderHandler{
		logger:      logger.With(slog.String("handler", "order")),
		validate:    validator.New(),
		svc:         svc,
		adminSecret: adminSecret,
	}
}

func (h *OrderHandler) Init(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.With(middleware.RequireIdentity).Post("/", h.Place)
		r.Get("/", h.List)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.adminSecret))
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// Place creates an order for the authenticated identity.
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      PlaceOrderRequest  true  "Order payload"
// @Success      201  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := middleware.Identity(ctx)

	var req PlaceOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.PlaceOrder(ctx, PlaceOrderToEntity(req), ident)
	if errors.Is(err, entities.ErrTotalMismatch) {
		utils.WriteError(w, "order total does not match items", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to place order", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// List returns the caller's orders, or every order for the admin secret.
// A wrong secret without a bearer identity yields an empty list, not an
// error, the legacy admin UI depends on that.
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}  Order
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		orders []entities.Order
		err    error
	)
	if middleware.IsAdmin(r, h.adminSecret) {
		orders, err = h.svc.AllOrders(ctx)
	} else if ident, ok := middleware.Identity(ctx); ok {
		orders, err = h.svc.OrdersFor(ctx, ident)
	} else {
		orders = []entities.Order{}
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// Update mutates an order's status. Admin only; terminal orders are immutable.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req UpdateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err = h.svc.UpdateStatus(ctx, id, entities.OrderStatus(req.Status))
	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrOrderTerminal):
		utils.WriteError(w, "order is in a terminal status", http.StatusConflict)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to update order", slog.Int64("id", id), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, map[string]string{"status": req.Status}, http.StatusOK)
	}
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	err = h.svc.DeleteOrder(ctx, id)
	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to delete order", slog.Int64("id", id), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, map[string]string{"message": "order deleted"}, http.StatusOK)
	}
}
