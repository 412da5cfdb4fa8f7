package domain

import "time"

// Identity represents a registered traveler account.
type Identity struct {
	ID           string  `json:"id" db:"id"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	FirstName    string  `json:"first_name" db:"first_name"`
	LastName     string  `json:"last_name" db:"last_name"`
	Avatar       *string `json:"avatar" db:"avatar"`
	Phone        *string `json:"phone" db:"phone"`
	RewardPoints int     `json:"reward_points" db:"reward_points"`

	EmailVerified bool `json:"email_verified" db:"email_verified"`

	// Two purpose-isolated OTP pairs. Each pair is set as a unit when a
	// code is issued and cleared as a unit when it is consumed; the
	// verification pair never touches the reset pair and vice versa.
	VerificationCode   *string    `json:"-" db:"verification_code"`
	VerificationExpiry *time.Time `json:"-" db:"verification_expiry"`
	ResetCode          *string    `json:"-" db:"reset_code"`
	ResetExpiry        *time.Time `json:"-" db:"reset_expiry"`

	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate carries a partial profile change. A nil field is left
// untouched. An empty FirstName/LastName is rejected by the service; an
// empty Phone/Avatar clears the stored value.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
}
