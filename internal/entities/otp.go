package entities

import (
	"errors"
	"time"
)

// OTP is a one-time numeric code bound to a mobile number or email address.
// Multiple rows may exist per identity; only the most recent unexpired row
// with a matching code is usable.
type OTP struct {
	ID        int64
	Identity  string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (o OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

var (
	ErrOTPInvalid = errors.New("invalid or expired otp")
	ErrUserExists = errors.New("user already registered")
)
