package domain

import "time"

// TokenClaims represents the payload of a signed access token.
type TokenClaims struct {
	SubjectID string `json:"sub"`
	Email     string `json:"email"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}

// ExpiresAt returns the expiry claim as a time.Time.
func (tc TokenClaims) ExpiresAt() time.Time {
	return time.Unix(tc.Exp, 0)
}
