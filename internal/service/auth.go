package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/internal/mailer"
)

const otpValidity = 10 * time.Minute

type OTPRepo interface {
	Create(ctx context.Context, identity, code string, expiresAt time.Time) error
	Latest(ctx context.Context, identity string) (entities.OTP, error)
	DeleteForIdentity(ctx context.Context, identity string) error
}

type SMSSender interface {
	SendOTP(ctx context.Context, mobile, code string) error
}

type IdentityProvider interface {
	CreateUser(ctx context.Context, mobile, password string) (identity.Identity, error)
	FindUser(ctx context.Context, identityStr string) (identity.Identity, error)
	UpdatePassword(ctx context.Context, userID, password string) error
}

type authService struct {
	logger    *slog.Logger
	otps      OTPRepo
	emailOTPs OTPRepo
	sms       SMSSender
	mailer    Mailer
	idp       IdentityProvider
	now       func() time.Time
}

func NewAuthService(logger *slog.Logger, otps, emailOTPs OTPRepo, sms SMSSender, m Mailer, idp IdentityProvider) *authService {
	return &authService{
		logger:    logger.With(slog.String("service", "auth")),
		otps:      otps,
		emailOTPs: emailOTPs,
		sms:       sms,
		mailer:    m,
		idp:       idp,
		now:       time.Now,
	}
}

// WithClock replaces the time source. For tests.
func (s *authService) WithClock(now func() time.Time) *authService {
	s.now = now
	return s
}

func (s *authService) SendMobileOTP(ctx context.Context, mobile string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.otps.Create(ctx, mobile, code, s.now().Add(otpValidity)); err != nil {
		return err
	}
	return s.sms.SendOTP(ctx, mobile, code)
}

func (s *authService) SendEmailOTP(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.emailOTPs.Create(ctx, email, code, s.now().Add(otpValidity)); err != nil {
		return err
	}

	msg := mailer.Message{
		To:       email,
		Subject:  "Your Kottravai verification code",
		HTML:     fmt.Sprintf("<p>Your verification code is <b>%s</b>. It is valid for 10 minutes.</p>", code),
		Category: mailer.CategoryContact,
	}
	return s.mailer.Send(msg)
}

// VerifyMobileOTP checks the code without consuming it; only the gated
// action (register, reset) consumes.
func (s *authService) VerifyMobileOTP(ctx context.Context, mobile, code string) error {
	return s.verify(ctx, s.otps, mobile, code)
}

func (s *authService) VerifyEmailOTP(ctx context.Context, email, code string) error {
	return s.verify(ctx, s.emailOTPs, email, code)
}

// verify accepts a code iff it matches the most recent row for the identity
// and that row is unexpired. An older matching code is superseded and invalid.
func (s *authService) verify(ctx context.Context, repo OTPRepo, identityStr, code string) error {
	latest, err := repo.Latest(ctx, identityStr)
	if err != nil {
		return err
	}
	if latest.Code != code || latest.Expired(s.now()) {
		return entities.ErrOTPInvalid
	}
	return nil
}

// Register creates the account after a valid mobile OTP and consumes it.
func (s *authService) Register(ctx context.Context, mobile, code, password string) (identity.Identity, error) {
	if err := s.verify(ctx, s.otps, mobile, code); err != nil {
		return identity.Identity{}, err
	}

	ident, err := s.idp.CreateUser(ctx, mobile, password)
	if err != nil {
		return identity.Identity{}, err
	}

	if err := s.otps.DeleteForIdentity(ctx, mobile); err != nil {
		s.logger.Error("failed to consume otps after registration",
			slog.String("mobile", mobile), slog.Any("error", err))
	}
	return ident, nil
}

// ResetPassword updates the password after a valid OTP and consumes it.
// The identity may be a mobile number or an email address.
func (s *authService) ResetPassword(ctx context.Context, identityStr, code, password string) error {
	repo := s.otps
	if strings.Contains(identityStr, "@") {
		repo = s.emailOTPs
	}

	if err := s.verify(ctx, repo, identityStr, code); err != nil {
		return err
	}

	ident, err := s.idp.FindUser(ctx, identityStr)
	if err != nil {
		return err
	}
	if err := s.idp.UpdatePassword(ctx, ident.ID, password); err != nil {
		return err
	}

	if err := repo.DeleteForIdentity(ctx, identityStr); err != nil {
		s.logger.Error("failed to consume otps after password reset",
			slog.String("identity", identityStr), slog.Any("error", err))
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
