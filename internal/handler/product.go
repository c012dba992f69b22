package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/middleware"
	"github.com/santhosharam/kottravai-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ProductService interface {
	Products(ctx context.Context) ([]entities.Product, error)
	ProductBySlug(ctx context.Context, slug string) (entities.Product, []entities.Review, error)
	CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	UpdateProduct(ctx context.Context, p entities.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	AddReview(ctx context.Context, review entities.Review) (entities.Review, error)
}

type ProductHandler struct {
	logger         *slog.Logger
	validate       *validator.Validate
	svc            ProductService
	adminSecret    string
	protectCatalog bool
}

func NewProductHandler(logger *slog.Logger, svc ProductService, adminSecret string, protectCatalog bool) *ProductHandler {
	return &ProductHandler{
		logger:         logger.With(slog.String("handler", "product")),
		validate:       validator.New(),
		svc:            svc,
		adminSecret:    adminSecret,
		protectCatalog: protectCatalog,
	}
}

func (h *ProductHandler) Init(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.With(h.protect()...).Post("/", h.Create)

		// Reads address products by slug, mutations by numeric id; both
		// share the one path segment.
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", h.BySlug)
			r.Group(func(r chi.Router) {
				r.Use(h.protect()...)
				r.Put("/", h.Update)
				r.Delete("/", h.Delete)
			})
		})
	})
	r.Post("/reviews", h.AddReview)
}

// protect returns the catalog mutation middleware chain. Empty when the
// deployment opts out of admin gating.
func (h *ProductHandler) protect() []func(http.Handler) http.Handler {
	if !h.protectCatalog {
		return nil
	}
	return []func(http.Handler) http.Handler{middleware.RequireAdmin(h.adminSecret)}
}

// List returns the full catalog, served from the process-wide cache.
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {array}  Product
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := h.svc.Products(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, ProductsEntityToJSON(products), http.StatusOK)
}

// BySlug returns one product together with its reviews.
// @Summary      Get product by slug
// @Tags         products
// @Param        slug  path  string  true  "Product slug"
// @Produce      json
// @Success      200  {object}  ProductDetail
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /products/{slug} [get]
func (h *ProductHandler) BySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	product, reviews, err := h.svc.ProductBySlug(ctx, slug)
	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product", slog.String("slug", slug), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	detail := ProductDetail{
		Product: ProductEntityToJSON(product),
		Reviews: ReviewsEntityToJSON(reviews),
	}
	utils.WriteJSON(w, detail, http.StatusOK)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	created, err := h.svc.CreateProduct(ctx, ProductRequestToEntity(req))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create product", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(created), http.StatusCreated)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "slug"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req ProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	product := ProductRequestToEntity(req)
	product.ID = id

	err = h.svc.UpdateProduct(ctx, product)
	switch {
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to update product", slog.Int64("id", id), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, map[string]string{"message": "product updated"}, http.StatusOK)
	}
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "slug"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	err = h.svc.DeleteProduct(ctx, id)
	switch {
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to delete product", slog.Int64("id", id), slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, map[string]string{"message": "product deleted"}, http.StatusOK)
	}
}

// AddReview stores a review. Open to any client, matching the storefront UI.
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReviewRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	review, err := h.svc.AddReview(ctx, entities.Review{
		ProductID: req.ProductID,
		Name:      req.Name,
		Email:     req.Email,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to add review", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ReviewEntityToJSON(review), http.StatusCreated)
}
