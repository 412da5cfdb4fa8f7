package service

import (
	"context"

	"github.com/voyago/identity-service/internal/domain"
	"github.com/voyago/identity-service/internal/dto"
)

// AuthService defines the identity and credential use cases.
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthData, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthData, error)
	Logout(ctx context.Context, token, ownerID string) error

	// AuthenticateToken is the protected-route check: revocation lookup
	// first, then signature and expiry.
	AuthenticateToken(ctx context.Context, token string) (*domain.TokenClaims, error)

	GetProfile(ctx context.Context, id string) (*dto.Profile, error)
	UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.Profile, error)
	AddRewardPoints(ctx context.Context, id string, delta int) (*dto.Profile, error)

	ForgotPassword(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error

	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
}

// Mailer is the notification port. Signup treats a send failure as
// non-fatal; forgot-password and resend-verification propagate it.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}
