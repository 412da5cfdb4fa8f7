package dto

import (
	"time"

	"github.com/voyago/identity-service/internal/domain"
)

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Profile is the outward projection of an identity. It never carries
// the password hash or either OTP pair.
type Profile struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Avatar        *string `json:"avatar,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	RewardPoints  int     `json:"rewardPoints"`
	EmailVerified bool    `json:"emailVerified"`
	JoinedAt      string  `json:"joinedAt"`
}

// NewProfile projects an identity into its public shape.
func NewProfile(identity *domain.Identity) Profile {
	return Profile{
		ID:            identity.ID,
		Email:         identity.Email,
		FirstName:     identity.FirstName,
		LastName:      identity.LastName,
		Avatar:        identity.Avatar,
		Phone:         identity.Phone,
		RewardPoints:  identity.RewardPoints,
		EmailVerified: identity.EmailVerified,
		JoinedAt:      identity.JoinedAt.Format(time.RFC3339),
	}
}

// AuthData is the payload returned by signup and login
type AuthData struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
