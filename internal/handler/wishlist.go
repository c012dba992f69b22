package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/middleware"
	"github.com/santhosharam/kottravai-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type WishlistService interface {
	Toggle(ctx context.Context, username string, productID int64) (bool, error)
	List(ctx context.Context, username string) ([]entities.Product, error)
}

type WishlistHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      WishlistService
}

func NewWishlistHandler(logger *slog.Logger, svc WishlistService) *WishlistHandler {
	return &WishlistHandler{
		logger:   logger.With(slog.String("handler", "wishlist")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *WishlistHandler) Init(r chi.Router) {
	r.Route("/wishlist", func(r chi.Router) {
		r.Use(middleware.RequireIdentity)
		r.Get("/", h.List)
		r.Post("/toggle", h.Toggle)
	})
}

type toggleRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

// Toggle flips the entry for the caller and reports the resulting state.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := middleware.Identity(ctx)

	var req toggleRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	wishlisted, err := h.svc.Toggle(ctx, ident.CanonicalUsername(), req.ProductID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to toggle wishlist", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]bool{"wishlisted": wishlisted}, http.StatusOK)
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := middleware.Identity(ctx)

	products, err := h.svc.List(ctx, ident.CanonicalUsername())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list wishlist", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductsEntityToJSON(products), http.StatusOK)
}
