package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/voyago/identity-service/internal/apperr"
	"github.com/voyago/identity-service/internal/domain"
	"github.com/voyago/identity-service/internal/dto"
	"github.com/voyago/identity-service/internal/notification"
	"github.com/voyago/identity-service/internal/repository"
	"github.com/voyago/identity-service/internal/utils"
	"go.uber.org/zap"
)

// uniformLoginMessage is returned for both unknown-email and bad-password
// logins; the two cases must be indistinguishable to the caller.
const uniformLoginMessage = "invalid email or password"

// Ledger is the revocation store the orchestrator consults on every
// protected request.
type Ledger interface {
	Revoke(ctx context.Context, token, ownerID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) bool
}

// authService implements AuthService. It composes the credential store,
// OTP manager, token issuer, revocation ledger and notification port;
// all cross-cutting business rules live here.
type authService struct {
	identityRepo repository.IdentityRepository
	jwtManager   *utils.JWTManager
	otpManager   *OTPManager
	ledger       Ledger
	mailer       Mailer
	bcryptCost   int
	otpTTL       time.Duration
	sendTimeout  time.Duration
	logger       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	identityRepo repository.IdentityRepository,
	jwtManager *utils.JWTManager,
	otpManager *OTPManager,
	ledger Ledger,
	mailer Mailer,
	bcryptCost int,
	otpTTL time.Duration,
	sendTimeout time.Duration,
	logger *zap.Logger,
) AuthService {
	return &authService{
		identityRepo: identityRepo,
		jwtManager:   jwtManager,
		otpManager:   otpManager,
		ledger:       ledger,
		mailer:       mailer,
		bcryptCost:   bcryptCost,
		otpTTL:       otpTTL,
		sendTimeout:  sendTimeout,
		logger:       logger,
	}
}

// Signup registers a new identity. The verification email is sent off
// the critical path: a delivery failure is logged and the signup still
// succeeds.
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthData, error) {
	email := utils.SanitizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, apperr.New(apperr.KindValidation, "invalid email format")
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, apperr.New(apperr.KindValidation,
			"password must be at least 8 characters long and contain uppercase, lowercase, and number")
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, apperr.New(apperr.KindValidation, "first name and last name are required")
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to hash password", err)
	}

	identity := &domain.Identity{
		Email:         email,
		PasswordHash:  passwordHash,
		FirstName:     firstName,
		LastName:      lastName,
		RewardPoints:  0,
		EmailVerified: false,
	}

	if err := s.identityRepo.Create(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.New(apperr.KindDuplicateIdentity, "email is already registered")
		}
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to create identity", err)
	}

	code, expiresAt, err := s.otpManager.Generate()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to generate verification code", err)
	}
	if err := s.identityRepo.SetVerificationCode(ctx, identity.ID, code, expiresAt); err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to store verification code", err)
	}

	s.sendDetached(identity.Email, notification.VerificationEmail(identity.FirstName, code, s.otpTTL))

	return s.issueAuthData(identity)
}

// Login authenticates by email and password.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthData, error) {
	identity, err := s.identityRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindAuthFailed, uniformLoginMessage)
		}
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to get identity", err)
	}

	if !utils.CheckPasswordHash(req.Password, identity.PasswordHash) {
		return nil, apperr.New(apperr.KindAuthFailed, uniformLoginMessage)
	}

	return s.issueAuthData(identity)
}

// Logout records the presented token in the revocation ledger for the
// remainder of its lifetime.
func (s *authService) Logout(ctx context.Context, token, ownerID string) error {
	expiresAt, err := s.jwtManager.DecodeExpiry(token)
	if err != nil {
		return apperr.Wrap(apperr.KindUnauthorized, "invalid token", err)
	}

	if err := s.ledger.Revoke(ctx, token, ownerID, expiresAt); err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to revoke token", err)
	}
	return nil
}

// AuthenticateToken performs the protected-route check. The revocation
// lookup runs before signature validation; a revoked token is rejected
// even while its signature and expiry are individually valid.
func (s *authService) AuthenticateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	if s.ledger.IsRevoked(ctx, token) {
		return nil, apperr.New(apperr.KindUnauthorized, "token has been revoked")
	}

	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "invalid or expired token", err)
	}

	return claims, nil
}

// GetProfile returns the public projection of an identity.
func (s *authService) GetProfile(ctx context.Context, id string) (*dto.Profile, error) {
	identity, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := dto.NewProfile(identity)
	return &profile, nil
}

// UpdateProfile applies a partial profile change. A provided-but-empty
// name is rejected; a provided-but-empty phone/avatar clears the field.
func (s *authService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.Profile, error) {
	update := domain.ProfileUpdate{
		Phone:  trimmed(req.Phone),
		Avatar: trimmed(req.Avatar),
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, apperr.New(apperr.KindValidation, "first name cannot be empty")
		}
		update.FirstName = &name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return nil, apperr.New(apperr.KindValidation, "last name cannot be empty")
		}
		update.LastName = &name
	}

	identity, err := s.identityRepo.UpdateProfile(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "identity not found")
		}
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to update profile", err)
	}

	profile := dto.NewProfile(identity)
	return &profile, nil
}

// AddRewardPoints atomically adjusts the reward balance.
func (s *authService) AddRewardPoints(ctx context.Context, id string, delta int) (*dto.Profile, error) {
	if delta == 0 {
		return nil, apperr.New(apperr.KindValidation, "delta must be non-zero")
	}

	identity, err := s.identityRepo.AddRewardPoints(ctx, id, delta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "identity not found")
		}
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to add reward points", err)
	}

	profile := dto.NewProfile(identity)
	return &profile, nil
}

// ForgotPassword starts a reset flow. It reports success whether or not
// the email is registered, so callers cannot enumerate accounts. For a
// registered email the reset mail is on the critical path: a delivery
// failure surfaces, since the user has no other way forward.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	identity, err := s.identityRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return apperr.Wrap(apperr.KindUnexpected, "failed to get identity", err)
	}

	code, expiresAt, err := s.otpManager.Generate()
	if err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to generate reset code", err)
	}
	if err := s.identityRepo.SetResetCode(ctx, identity.ID, code, expiresAt); err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to store reset code", err)
	}

	mail := notification.ResetEmail(identity.FirstName, code, s.otpTTL)
	if err := s.mailer.Send(ctx, identity.Email, mail.Subject, mail.HTMLBody, mail.TextBody); err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to send reset email", err)
	}

	return nil
}

// VerifyResetOTP is a read-only check of the stored reset pair, used by
// the client before the user commits a new password. It mutates nothing.
func (s *authService) VerifyResetOTP(ctx context.Context, email, code string) error {
	identity, err := s.identityRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Indistinguishable from a wrong code, same as ForgotPassword
			// leaks nothing about registration.
			return apperr.New(apperr.KindOTPInvalid, "invalid or expired code")
		}
		return apperr.Wrap(apperr.KindUnexpected, "failed to get identity", err)
	}

	if s.otpManager.Check(code, identity.ResetCode, identity.ResetExpiry) != OTPOk {
		return apperr.New(apperr.KindOTPInvalid, "invalid or expired code")
	}
	return nil
}

// ResetPassword re-validates the reset code even if the client already
// called VerifyResetOTP, then swaps the hash and clears the reset pair
// in a single write.
func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if !utils.ValidatePassword(newPassword) {
		return apperr.New(apperr.KindValidation,
			"password must be at least 8 characters long and contain uppercase, lowercase, and number")
	}

	identity, err := s.identityRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindOTPInvalid, "invalid or expired code")
		}
		return apperr.Wrap(apperr.KindUnexpected, "failed to get identity", err)
	}

	if s.otpManager.Check(code, identity.ResetCode, identity.ResetExpiry) != OTPOk {
		return apperr.New(apperr.KindOTPInvalid, "invalid or expired code")
	}

	passwordHash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to hash password", err)
	}

	if err := s.identityRepo.UpdatePasswordHash(ctx, identity.ID, passwordHash, true); err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to update password", err)
	}

	return nil
}

// VerifyEmail consumes a pending verification code. The verification
// pair is cleared in the same write that sets the flag; the reset pair
// is never touched.
func (s *authService) VerifyEmail(ctx context.Context, email, code string) error {
	identity, err := s.identityRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "identity not found")
		}
		return apperr.Wrap(apperr.KindUnexpected, "failed to get identity", err)
	}

	if identity.EmailVerified {
		return apperr.New(apperr.KindAlreadyVerified, "email is already verified")
	}

	if s.otpManager.Check(code, identity.VerificationCode, identity.VerificationExpiry) != OTPOk {
		return apperr.New(apperr.KindOTPInvalid, "invalid or expired code")
	}

	if err := s.identityRepo.MarkEmailVerified(ctx, identity.ID); err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to mark email verified", err)
	}

	return nil
}

// ResendVerification regenerates the verification code, invalidating the
// previous one, and resends the email. The send is awaited: failure
// surfaces to the caller.
func (s *authService) ResendVerification(ctx context.Context, email string) error {
	identity, err := s.identityRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "identity not found")
		}
		return apperr.Wrap(apperr.KindUnexpected, "failed to get identity", err)
	}

	if identity.EmailVerified {
		return apperr.New(apperr.KindAlreadyVerified, "email is already verified")
	}

	code, expiresAt, err := s.otpManager.Generate()
	if err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to generate verification code", err)
	}
	if err := s.identityRepo.SetVerificationCode(ctx, identity.ID, code, expiresAt); err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to store verification code", err)
	}

	mail := notification.VerificationEmail(identity.FirstName, code, s.otpTTL)
	if err := s.mailer.Send(ctx, identity.Email, mail.Subject, mail.HTMLBody, mail.TextBody); err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "failed to send verification email", err)
	}

	return nil
}

func (s *authService) getByID(ctx context.Context, id string) (*domain.Identity, error) {
	identity, err := s.identityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "identity not found")
		}
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to get identity", err)
	}
	return identity, nil
}

func (s *authService) issueAuthData(identity *domain.Identity) (*dto.AuthData, error) {
	token, err := s.jwtManager.Issue(identity.ID, identity.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "failed to issue token", err)
	}

	return &dto.AuthData{
		Token: token,
		User:  dto.NewProfile(identity),
	}, nil
}

// sendDetached fires a mail send off the request path with its own
// bounded context, logging but never propagating a failure.
func (s *authService) sendDetached(to string, mail notification.Email) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, to, mail.Subject, mail.HTMLBody, mail.TextBody); err != nil {
			s.logger.Warn("verification email delivery failed",
				zap.String("to", to),
				zap.Error(err),
			)
		}
	}()
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
