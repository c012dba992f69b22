package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	SendMobileOTP(ctx context.Context, mobile string) error
	SendEmailOTP(ctx context.Context, email string) error
	VerifyMobileOTP(ctx context.Context, mobile, code string) error
	VerifyEmailOTP(ctx context.Context, email, code string) error
	Register(ctx context.Context, mobile, code, password string) (identity.Identity, error)
	ResetPassword(ctx context.Context, identityStr, code, password string) error
}

type AuthHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      AuthService
}

func NewAuthHandler(logger *slog.Logger, svc AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger.With(slog.String("handler", "auth")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *AuthHandler) Init(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/send-otp", h.SendOTP)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/send-email-otp", h.SendEmailOTP)
		r.Post("/verify-email-otp", h.VerifyEmailOTP)
		r.Post("/register", h.Register)
		r.Post("/reset-password-with-otp", h.ResetPassword)
	})
}

type sendOTPRequest struct {
	Mobile string `json:"mobile" validate:"required,len=10,numeric"`
}

type verifyOTPRequest struct {
	Mobile string `json:"mobile" validate:"required,len=10,numeric"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

type sendEmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyEmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type registerRequest struct {
	Mobile   string `json:"mobile" validate:"required,len=10,numeric"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6"`
}

type resetPasswordRequest struct {
	Identity    string `json:"identity" validate:"required"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.SendMobileOTP(r.Context(), req.Mobile); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to send otp", slog.Any("error", err))
		utils.WriteError(w, "failed to send otp", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, map[string]string{"message": "otp sent"}, http.StatusOK)
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondVerify(w, r, h.svc.VerifyMobileOTP(r.Context(), req.Mobile, req.OTP))
}

func (h *AuthHandler) SendEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req sendEmailOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.SendEmailOTP(r.Context(), req.Email); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to send email otp", slog.Any("error", err))
		utils.WriteError(w, "failed to send otp", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, map[string]string{"message": "otp sent"}, http.StatusOK)
}

func (h *AuthHandler) VerifyEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailOTPRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondVerify(w, r, h.svc.VerifyEmailOTP(r.Context(), req.Email, req.OTP))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	ident, err := h.svc.Register(r.Context(), req.Mobile, req.OTP, req.Password)
	switch {
	case errors.Is(err, entities.ErrOTPInvalid):
		utils.WriteError(w, "invalid or expired otp", http.StatusBadRequest)
	case errors.Is(err, entities.ErrUserExists):
		utils.WriteError(w, "user already registered", http.StatusBadRequest)
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to register", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, map[string]string{"id": ident.ID, "message": "registered"}, http.StatusCreated)
	}
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.svc.ResetPassword(r.Context(), req.Identity, req.OTP, req.NewPassword)
	switch {
	case errors.Is(err, entities.ErrOTPInvalid):
		utils.WriteError(w, "invalid or expired otp", http.StatusBadRequest)
	case errors.Is(err, identity.ErrUserNotFound):
		utils.WriteError(w, "user not found", http.StatusNotFound)
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to reset password", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, map[string]string{"message": "password updated"}, http.StatusOK)
	}
}

func (h *AuthHandler) respondVerify(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entities.ErrOTPInvalid):
		utils.WriteError(w, "invalid or expired otp", http.StatusBadRequest)
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to verify otp", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, map[string]bool{"verified": true}, http.StatusOK)
	}
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
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
