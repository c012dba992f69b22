package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/santhosharam/kottravai-backend/internal/middleware"
	"github.com/santhosharam/kottravai-backend/internal/shiprocket"
	"github.com/santhosharam/kottravai-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ShippingClient interface {
	Serviceability(ctx context.Context, pickupPincode, deliveryPincode string, weight float64) ([]shiprocket.Courier, error)
	AssignAWB(ctx context.Context, shipmentID string, courierID int) (shiprocket.AWBResult, error)
	SchedulePickup(ctx context.Context, shipmentIDs []string) error
	Track(ctx context.Context, shipmentID string) (shiprocket.TrackingInfo, error)
	Cancel(ctx context.Context, providerOrderIDs []string) error
	GenerateLabel(ctx context.Context, shipmentIDs []string) (string, error)
}

// ShippingHandler exposes the fulfilment workflow the admin panel drives
// after an order has a shipment: courier selection, AWB booking, pickup,
// tracking, labels and cancellation. All routes are admin-gated.
type ShippingHandler struct {
	logger      *slog.Logger
	validate    *validator.Validate
	client      ShippingClient
	adminSecret string
}

func NewShippingHandler(logger *slog.Logger, client ShippingClient, adminSecret string) *ShippingHandler {
	return &ShippingHandler{
		logger:      logger.With(slog.String("handler", "shipping")),
		validate:    validator.New(),
		client:      client,
		adminSecret: adminSecret,
	}
}

func (h *ShippingHandler) Init(r chi.Router) {
	r.Route("/shipping", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.adminSecret))
		r.Get("/serviceability", h.Serviceability)
		r.Post("/awb", h.AssignAWB)
		r.Post("/pickup", h.SchedulePickup)
		r.Get("/track/{shipmentID}", h.Track)
		r.Post("/cancel", h.Cancel)
		r.Post("/label", h.GenerateLabel)
	})
}

func (h *ShippingHandler) Serviceability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pickup := q.Get("pickup_pincode")
	delivery := q.Get("delivery_pincode")
	if err := h.validate.Var(pickup, "required,len=6,numeric"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	if err := h.validate.Var(delivery, "required,len=6,numeric"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	couriers, err := h.client.Serviceability(r.Context(), pickup, delivery, 0.5)
	if err != nil {
		h.upstreamError(w, r, "serviceability check failed", err)
		return
	}
	utils.WriteJSON(w, couriers, http.StatusOK)
}

type assignAWBRequest struct {
	ShipmentID string `json:"shipment_id" validate:"required"`
	CourierID  int    `json:"courier_id,omitempty"`
}

func (h *ShippingHandler) AssignAWB(w http.ResponseWriter, r *http.Request) {
	var req assignAWBRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.client.AssignAWB(r.Context(), req.ShipmentID, req.CourierID)
	if err != nil {
		h.upstreamError(w, r, "awb assignment failed", err)
		return
	}
	utils.WriteJSON(w, map[string]string{
		"awb_code":     result.AWBCode,
		"courier_name": result.CourierName,
	}, http.StatusOK)
}

type shipmentIDsRequest struct {
	ShipmentIDs []string `json:"shipment_ids" validate:"required,min=1"`
}

func (h *ShippingHandler) SchedulePickup(w http.ResponseWriter, r *http.Request) {
	var req shipmentIDsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.client.SchedulePickup(r.Context(), req.ShipmentIDs); err != nil {
		h.upstreamError(w, r, "pickup scheduling failed", err)
		return
	}
	utils.WriteJSON(w, map[string]string{"message": "pickup scheduled"}, http.StatusOK)
}

func (h *ShippingHandler) Track(w http.ResponseWriter, r *http.Request) {
	shipmentID := chi.URLParam(r, "shipmentID")
	if err := h.validate.Var(shipmentID, "required,numeric"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	info, err := h.client.Track(r.Context(), shipmentID)
	if err != nil {
		h.upstreamError(w, r, "tracking lookup failed", err)
		return
	}
	utils.WriteJSON(w, map[string]any{
		"current_status": info.CurrentStatus,
		"activities":     info.Activities,
	}, http.StatusOK)
}

type cancelShipmentsRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1"`
}

func (h *ShippingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelShipmentsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.client.Cancel(r.Context(), req.OrderIDs); err != nil {
		h.upstreamError(w, r, "shipment cancellation failed", err)
		return
	}
	utils.WriteJSON(w, map[string]string{"message": "cancelled"}, http.StatusOK)
}

func (h *ShippingHandler) GenerateLabel(w http.ResponseWriter, r *http.Request) {
	var req shipmentIDsRequest
	if !h.decode(w, r, &req) {
		return
	}

	url, err := h.client.GenerateLabel(r.Context(), req.ShipmentIDs)
	if err != nil {
		h.upstreamError(w, r, "label generation failed", err)
		return
	}
	utils.WriteJSON(w, map[string]string{"label_url": url}, http.StatusOK)
}

// upstreamError relays the provider's status and message when the failure
// is a provider rejection, and hides internals otherwise.
func (h *ShippingHandler) upstreamError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))

	var apiErr *shiprocket.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		utils.WriteError(w, apiErr.Message, apiErr.Status)
		return
	}
	utils.WriteError(w, msg, http.StatusBadGateway)
}

func (h *ShippingHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := utils.DecodeBody(r, v); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		utils.WriteValidationError(w, err)
		return false
	}
	return true
}
