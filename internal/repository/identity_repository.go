package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/voyago/identity-service/internal/domain"
	"github.com/voyago/identity-service/pkg/database"
)

const identityColumns = `id, email, password_hash, first_name, last_name, avatar, phone,
		reward_points, email_verified, verification_code, verification_expiry,
		reset_code, reset_expiry, joined_at, created_at, updated_at`

// identityRepository implements IdentityRepository on Postgres.
type identityRepository struct {
	db *database.Postgres
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *database.Postgres) IdentityRepository {
	return &identityRepository{db: db}
}

// Create creates a new identity. The unique index on lower(email) backs
// the duplicate check.
func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	query := `
		INSERT INTO identities (id, email, password_hash, first_name, last_name,
			reward_points, email_verified, joined_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if identity.ID == "" {
		identity.ID = uuid.New().String()
	}

	now := time.Now()
	if identity.JoinedAt.IsZero() {
		identity.JoinedAt = now
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	if identity.UpdatedAt.IsZero() {
		identity.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.FirstName,
		identity.LastName,
		identity.RewardPoints,
		identity.EmailVerified,
		identity.JoinedAt,
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("identity with email %s already exists: %w", identity.Email, ErrDuplicateEmail)
			}
		}
		return fmt.Errorf("failed to create identity: %w", err)
	}

	return nil
}

// GetByEmail retrieves an identity by its normalized email
func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM identities WHERE email = $1`, identityColumns)

	identity, err := r.scanIdentity(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("identity with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get identity by email: %w", err)
	}

	return identity, nil
}

// GetByID retrieves an identity by ID
func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM identities WHERE id = $1`, identityColumns)

	identity, err := r.scanIdentity(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("identity with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get identity by id: %w", err)
	}

	return identity, nil
}

// UpdateProfile applies only the provided fields. Empty phone/avatar
// values become NULL.
func (r *identityRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Identity, error) {
	assignments := []string{"updated_at = now()"}
	args := []interface{}{id}

	appendSet := func(column string, value *string, clearOnEmpty bool) {
		if value == nil {
			return
		}
		if clearOnEmpty && *value == "" {
			assignments = append(assignments, fmt.Sprintf("%s = NULL", column))
			return
		}
		args = append(args, *value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	appendSet("first_name", update.FirstName, false)
	appendSet("last_name", update.LastName, false)
	appendSet("phone", update.Phone, true)
	appendSet("avatar", update.Avatar, true)

	query := fmt.Sprintf(`UPDATE identities SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(assignments, ", "), identityColumns)

	identity, err := r.scanIdentity(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("identity with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return identity, nil
}

// AddRewardPoints adjusts the balance in a single atomic statement.
func (r *identityRepository) AddRewardPoints(ctx context.Context, id string, delta int) (*domain.Identity, error) {
	query := fmt.Sprintf(`
		UPDATE identities
		SET reward_points = reward_points + $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, identityColumns)

	identity, err := r.scanIdentity(r.db.DB.QueryRowContext(ctx, query, id, delta))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("identity with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to add reward points: %w", err)
	}

	return identity, nil
}

// SetVerificationCode overwrites the verification OTP pair. The reset
// pair is untouched.
func (r *identityRepository) SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	query := `
		UPDATE identities
		SET verification_code = $2, verification_expiry = $3, updated_at = now()
		WHERE id = $1
	`

	return r.execOnIdentity(ctx, id, query, code, expiresAt)
}

// MarkEmailVerified flips the flag and clears the verification pair in
// one write.
func (r *identityRepository) MarkEmailVerified(ctx context.Context, id string) error {
	query := `
		UPDATE identities
		SET email_verified = TRUE, verification_code = NULL, verification_expiry = NULL, updated_at = now()
		WHERE id = $1
	`

	return r.execOnIdentity(ctx, id, query)
}

// SetResetCode overwrites the reset OTP pair. The verification pair is
// untouched.
func (r *identityRepository) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	query := `
		UPDATE identities
		SET reset_code = $2, reset_expiry = $3, updated_at = now()
		WHERE id = $1
	`

	return r.execOnIdentity(ctx, id, query, code, expiresAt)
}

// UpdatePasswordHash replaces the stored hash, optionally consuming the
// reset pair in the same statement.
func (r *identityRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string, clearReset bool) error {
	query := `
		UPDATE identities
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`
	if clearReset {
		query = `
		UPDATE identities
		SET password_hash = $2, reset_code = NULL, reset_expiry = NULL, updated_at = now()
		WHERE id = $1
	`
	}

	return r.execOnIdentity(ctx, id, query, passwordHash)
}

func (r *identityRepository) execOnIdentity(ctx context.Context, id, query string, args ...interface{}) error {
	result, err := r.db.DB.ExecContext(ctx, query, append([]interface{}{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("identity with id %s not found: %w", id, ErrNotFound)
	}

	return nil
}

func (r *identityRepository) scanIdentity(row *sql.Row) (*domain.Identity, error) {
	identity := &domain.Identity{}
	var avatar, phone, verificationCode, resetCode sql.NullString
	var verificationExpiry, resetExpiry sql.NullTime

	err := row.Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.FirstName,
		&identity.LastName,
		&avatar,
		&phone,
		&identity.RewardPoints,
		&identity.EmailVerified,
		&verificationCode,
		&verificationExpiry,
		&resetCode,
		&resetExpiry,
		&identity.JoinedAt,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if avatar.Valid {
		identity.Avatar = &avatar.String
	}
	if phone.Valid {
		identity.Phone = &phone.String
	}
	if verificationCode.Valid {
		identity.VerificationCode = &verificationCode.String
	}
	if verificationExpiry.Valid {
		identity.VerificationExpiry = &verificationExpiry.Time
	}
	if resetCode.Valid {
		identity.ResetCode = &resetCode.String
	}
	if resetExpiry.Valid {
		identity.ResetExpiry = &resetExpiry.Time
	}

	return identity, nil
}
