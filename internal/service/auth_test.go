package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var authNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAuthService_SendMobileOTP(t *testing.T) {
	otps := new(mockOTPRepo)
	sms := new(mockSMSSender)

	var storedCode string
	otps.On("Create", mock.Anything, "9876543210", mock.AnythingOfType("string"), authNow.Add(10*time.Minute)).
		Run(func(args mock.Arguments) { storedCode = args.String(2) }).
		Return(nil)
	sms.On("SendOTP", mock.Anything, "9876543210", mock.AnythingOfType("string")).Return(nil)

	svc := service.NewAuthService(discardLogger(), otps, new(mockOTPRepo), sms, new(mockMailer), new(mockIdentityProvider)).
		WithClock(func() time.Time { return authNow })

	require.NoError(t, svc.SendMobileOTP(context.Background(), "9876543210"))
	assert.Len(t, storedCode, 6)
	otps.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestAuthService_SendEmailOTP(t *testing.T) {
	emailOTPs := new(mockOTPRepo)
	m := new(mockMailer)

	emailOTPs.On("Create", mock.Anything, "meena@example.com", mock.AnythingOfType("string"), authNow.Add(10*time.Minute)).
		Return(nil)
	m.On("Send", mock.Anything).Return(nil)

	svc := service.NewAuthService(discardLogger(), new(mockOTPRepo), emailOTPs, new(mockSMSSender), m, new(mockIdentityProvider)).
		WithClock(func() time.Time { return authNow })

	require.NoError(t, svc.SendEmailOTP(context.Background(), "meena@example.com"))
	emailOTPs.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestAuthService_VerifyMobileOTP(t *testing.T) {
	testCases := []struct {
		name         string
		code         string
		mockBehavior func(otps *mockOTPRepo)
		wantErr      error
	}{
		{
			name: "match on most recent unexpired row",
			code: "123456",
			mockBehavior: func(otps *mockOTPRepo) {
				otps.On("Latest", mock.Anything, "9876543210").
					Return(entities.OTP{Code: "123456", ExpiresAt: authNow.Add(time.Minute)}, nil)
			},
		},
		{
			name: "wrong code",
			code: "000000",
			mockBehavior: func(otps *mockOTPRepo) {
				otps.On("Latest", mock.Anything, "9876543210").
					Return(entities.OTP{Code: "123456", ExpiresAt: authNow.Add(time.Minute)}, nil)
			},
			wantErr: entities.ErrOTPInvalid,
		},
		{
			name: "expired code",
			code: "123456",
			mockBehavior: func(otps *mockOTPRepo) {
				otps.On("Latest", mock.Anything, "9876543210").
					Return(entities.OTP{Code: "123456", ExpiresAt: authNow.Add(-time.Second)}, nil)
			},
			wantErr: entities.ErrOTPInvalid,
		},
		{
			name: "superseded code no longer valid",
			code: "111111",
			mockBehavior: func(otps *mockOTPRepo) {
				// The latest row carries a newer code; an older one must not pass.
				otps.On("Latest", mock.Anything, "9876543210").
					Return(entities.OTP{Code: "222222", ExpiresAt: authNow.Add(time.Minute)}, nil)
			},
			wantErr: entities.ErrOTPInvalid,
		},
		{
			name: "no rows",
			code: "123456",
			mockBehavior: func(otps *mockOTPRepo) {
				otps.On("Latest", mock.Anything, "9876543210").
					Return(entities.OTP{}, entities.ErrOTPInvalid)
			},
			wantErr: entities.ErrOTPInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			otps := new(mockOTPRepo)
			tc.mockBehavior(otps)

			svc := service.NewAuthService(discardLogger(), otps, new(mockOTPRepo), new(mockSMSSender), new(mockMailer), new(mockIdentityProvider)).
				WithClock(func() time.Time { return authNow })

			err := svc.VerifyMobileOTP(context.Background(), "9876543210", tc.code)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			// Plain verification must not consume the code.
			otps.AssertNotCalled(t, "DeleteForIdentity", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	validOTP := entities.OTP{Code: "123456", ExpiresAt: authNow.Add(time.Minute)}

	t.Run("creates user and consumes otp", func(t *testing.T) {
		otps := new(mockOTPRepo)
		idp := new(mockIdentityProvider)

		otps.On("Latest", mock.Anything, "9876543210").Return(validOTP, nil)
		idp.On("CreateUser", mock.Anything, "9876543210", "secret12").
			Return(identity.Identity{ID: "uuid", Phone: "9876543210"}, nil)
		otps.On("DeleteForIdentity", mock.Anything, "9876543210").Return(nil)

		svc := service.NewAuthService(discardLogger(), otps, new(mockOTPRepo), new(mockSMSSender), new(mockMailer), idp).
			WithClock(func() time.Time { return authNow })

		ident, err := svc.Register(context.Background(), "9876543210", "123456", "secret12")
		require.NoError(t, err)
		assert.Equal(t, "uuid", ident.ID)
		otps.AssertExpectations(t)
	})

	t.Run("invalid otp blocks registration", func(t *testing.T) {
		otps := new(mockOTPRepo)
		idp := new(mockIdentityProvider)
		otps.On("Latest", mock.Anything, "9876543210").Return(validOTP, nil)

		svc := service.NewAuthService(discardLogger(), otps, new(mockOTPRepo), new(mockSMSSender), new(mockMailer), idp).
			WithClock(func() time.Time { return authNow })

		_, err := svc.Register(context.Background(), "9876543210", "999999", "secret12")
		require.ErrorIs(t, err, entities.ErrOTPInvalid)
		idp.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate account surfaces and keeps otp", func(t *testing.T) {
		otps := new(mockOTPRepo)
		idp := new(mockIdentityProvider)
		otps.On("Latest", mock.Anything, "9876543210").Return(validOTP, nil)
		idp.On("CreateUser", mock.Anything, "9876543210", "secret12").
			Return(identity.Identity{}, entities.ErrUserExists)

		svc := service.NewAuthService(discardLogger(), otps, new(mockOTPRepo), new(mockSMSSender), new(mockMailer), idp).
			WithClock(func() time.Time { return authNow })

		_, err := svc.Register(context.Background(), "9876543210", "123456", "secret12")
		require.ErrorIs(t, err, entities.ErrUserExists)
		otps.AssertNotCalled(t, "DeleteForIdentity", mock.Anything, mock.Anything)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	validOTP := entities.OTP{Code: "123456", ExpiresAt: authNow.Add(time.Minute)}

	t.Run("email identity uses email otps", func(t *testing.T) {
		mobileOTPs := new(mockOTPRepo)
		emailOTPs := new(mockOTPRepo)
		idp := new(mockIdentityProvider)

		emailOTPs.On("Latest", mock.Anything, "meena@example.com").Return(validOTP, nil)
		idp.On("FindUser", mock.Anything, "meena@example.com").
			Return(identity.Identity{ID: "uuid", Email: "meena@example.com"}, nil)
		idp.On("UpdatePassword", mock.Anything, "uuid", "newpass1").Return(nil)
		emailOTPs.On("DeleteForIdentity", mock.Anything, "meena@example.com").Return(nil)

		svc := service.NewAuthService(discardLogger(), mobileOTPs, emailOTPs, new(mockSMSSender), new(mockMailer), idp).
			WithClock(func() time.Time { return authNow })

		require.NoError(t, svc.ResetPassword(context.Background(), "meena@example.com", "123456", "newpass1"))
		mobileOTPs.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
		emailOTPs.AssertExpectations(t)
	})

	t.Run("mobile identity uses mobile otps", func(t *testing.T) {
		mobileOTPs := new(mockOTPRepo)
		emailOTPs := new(mockOTPRepo)
		idp := new(mockIdentityProvider)

		mobileOTPs.On("Latest", mock.Anything, "9876543210").Return(validOTP, nil)
		idp.On("FindUser", mock.Anything, "9876543210").
			Return(identity.Identity{ID: "uuid", Phone: "9876543210"}, nil)
		idp.On("UpdatePassword", mock.Anything, "uuid", "newpass1").Return(nil)
		mobileOTPs.On("DeleteForIdentity", mock.Anything, "9876543210").Return(nil)

		svc := service.NewAuthService(discardLogger(), mobileOTPs, emailOTPs, new(mockSMSSender), new(mockMailer), idp).
			WithClock(func() time.Time { return authNow })

		require.NoError(t, svc.ResetPassword(context.Background(), "9876543210", "123456", "newpass1"))
		emailOTPs.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		mobileOTPs := new(mockOTPRepo)
		idp := new(mockIdentityProvider)

		mobileOTPs.On("Latest", mock.Anything, "9876543210").Return(validOTP, nil)
		idp.On("FindUser", mock.Anything, "9876543210").
			Return(identity.Identity{}, identity.ErrUserNotFound)

		svc := service.NewAuthService(discardLogger(), mobileOTPs, new(mockOTPRepo), new(mockSMSSender), new(mockMailer), idp).
			WithClock(func() time.Time { return authNow })

		err := svc.ResetPassword(context.Background(), "9876543210", "123456", "newpass1")
		require.ErrorIs(t, err, identity.ErrUserNotFound)
		idp.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
