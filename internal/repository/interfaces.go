package repository

import (
	"context"
	"time"

	"github.com/voyago/identity-service/internal/domain"
)

// IdentityRepository defines persistence operations for identities.
// Callers pass already-normalized (lowercase, trimmed) emails and
// already-hashed passwords; the repository never hashes or normalizes.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	GetByID(ctx context.Context, id string) (*domain.Identity, error)

	// UpdateProfile applies a partial profile change in one statement and
	// returns the updated identity.
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Identity, error)

	// AddRewardPoints atomically adjusts the balance and returns the
	// updated identity.
	AddRewardPoints(ctx context.Context, id string, delta int) (*domain.Identity, error)

	// SetVerificationCode stores a fresh verification OTP pair,
	// overwriting any previous one for that purpose.
	SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error

	// MarkEmailVerified flips the verified flag and clears the
	// verification OTP pair in the same write.
	MarkEmailVerified(ctx context.Context, id string) error

	// SetResetCode stores a fresh password-reset OTP pair, overwriting
	// any previous one for that purpose.
	SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error

	// UpdatePasswordHash replaces the password hash. When clearReset is
	// set the reset OTP pair is cleared in the same write, so a consumed
	// reset code can never be replayed.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string, clearReset bool) error
}
