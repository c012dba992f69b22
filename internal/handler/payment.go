package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/santhosharam/kottravai-backend/internal/payment"
	"github.com/santhosharam/kottravai-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, receipt string) (payment.GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type PaymentHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	gateway  PaymentGateway
}

func NewPaymentHandler(logger *slog.Logger, gateway PaymentGateway) *PaymentHandler {
	return &PaymentHandler{
		logger:   logger.With(slog.String("handler", "payment")),
		validate: validator.New(),
		gateway:  gateway,
	}
}

func (h *PaymentHandler) Init(r chi.Router) {
	r.Route("/razorpay", func(r chi.Router) {
		r.Post("/order", h.CreateOrder)
		r.Post("/verify", h.Verify)
	})
}

type createPaymentOrderRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Receipt string  `json:"receipt,omitempty"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createPaymentOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.gateway.CreateOrder(ctx, req.Amount, req.Receipt)
	if errors.Is(err, payment.ErrInvalidAmount) {
		utils.WriteError(w, "amount must be a positive number", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create payment order", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, order, http.StatusOK)
}

// Verify checks the gateway's payment signature. A mismatch is a normal
// outcome reported in the body, not an error status.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	verified := h.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature)
	utils.WriteJSON(w, map[string]bool{"verified": verified}, http.StatusOK)
}
