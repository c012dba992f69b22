package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/santhosharam/kottravai-backend/internal/mailer"
	"github.com/santhosharam/kottravai-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Mailer interface {
	Send(msg mailer.Message) error
}

// ContactHandler serves the transactional-email endpoints: contact form,
// B2B inquiry, custom product request and newsletter subscription. Each
// endpoint maps to a mail category, which picks the Reply-To alias.
type ContactHandler struct {
	logger     *slog.Logger
	validate   *validator.Validate
	mailer     Mailer
	adminEmail string
}

func NewContactHandler(logger *slog.Logger, m Mailer, adminEmail string) *ContactHandler {
	return &ContactHandler{
		logger:     logger.With(slog.String("handler", "contact")),
		validate:   validator.New(),
		mailer:     m,
		adminEmail: adminEmail,
	}
}

func (h *ContactHandler) Init(r chi.Router) {
	r.Post("/contact", h.Contact)
	r.Post("/b2b-inquiry", h.B2BInquiry)
	r.Post("/custom-request", h.CustomRequest)
	r.Post("/subscribe", h.Subscribe)
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !h.decode(w, r, &req) {
		return
	}

	body := fmt.Sprintf("<h3>Contact form</h3><p>From: %s &lt;%s&gt;</p><p>%s</p>",
		req.Name, req.Email, req.Message)
	h.send(w, r, mailer.Message{
		To:       h.adminEmail,
		Subject:  "Contact form: " + req.Name,
		HTML:     body,
		Category: mailer.CategoryContact,
	})
}

type b2bInquiryRequest struct {
	Company string `json:"company" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message" validate:"required"`
}

func (h *ContactHandler) B2BInquiry(w http.ResponseWriter, r *http.Request) {
	var req b2bInquiryRequest
	if !h.decode(w, r, &req) {
		return
	}

	body := fmt.Sprintf("<h3>B2B inquiry</h3><p>%s / %s &lt;%s&gt; %s</p><p>%s</p>",
		req.Company, req.Name, req.Email, req.Phone, req.Message)
	h.send(w, r, mailer.Message{
		To:       h.adminEmail,
		Subject:  "B2B inquiry from " + req.Company,
		HTML:     body,
		Category: mailer.CategoryB2B,
	})
}

type customRequestRequest struct {
	Name    string            `json:"name" validate:"required"`
	Email   string            `json:"email" validate:"required,email"`
	Phone   string            `json:"phone,omitempty"`
	Product string            `json:"product,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func (h *ContactHandler) CustomRequest(w http.ResponseWriter, r *http.Request) {
	var req customRequestRequest
	if !h.decode(w, r, &req) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h3>Custom request</h3><p>%s &lt;%s&gt; %s</p>", req.Name, req.Email, req.Phone)
	if req.Product != "" {
		fmt.Fprintf(&b, "<p>Product: %s</p>", req.Product)
	}
	for k, v := range req.Details {
		fmt.Fprintf(&b, "<p><b>%s</b>: %s</p>", k, v)
	}
	h.send(w, r, mailer.Message{
		To:       h.adminEmail,
		Subject:  "Custom request from " + req.Name,
		HTML:     b.String(),
		Category: mailer.CategoryCustom,
	})
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.send(w, r, mailer.Message{
		To:       h.adminEmail,
		Subject:  "Newsletter subscription",
		HTML:     fmt.Sprintf("<p>New subscriber: %s</p>", req.Email),
		Category: mailer.CategorySubscribe,
	})
}

func (h *ContactHandler) send(w http.ResponseWriter, r *http.Request, msg mailer.Message) {
	if err := h.mailer.Send(msg); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to send email", slog.Any("error", err))
		utils.WriteError(w, "failed to send message", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, map[string]string{"message": "sent"}, http.StatusOK)
}

func (h *ContactHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
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
