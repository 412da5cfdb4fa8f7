package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/voyago/identity-service/internal/domain"
)

// JWTManager mints and validates stateless access tokens. It holds the
// signing secret and the configured time-to-live; it never touches a
// store.
type JWTManager struct {
	secret      []byte
	tokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, tokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
	}
}

// Issue signs a token binding the identity and the configured expiry.
func (j *JWTManager) Issue(subjectID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subjectID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(j.tokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate checks the signature and expiry of a token and returns its claims.
func (j *JWTManager) Validate(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	subjectID, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid sub in token")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid email in token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp in token")
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat in token")
	}

	tokenClaims := &domain.TokenClaims{
		SubjectID: subjectID,
		Email:     email,
		Exp:       int64(exp),
		Iat:       int64(iat),
	}

	if tokenClaims.IsExpired() {
		return nil, fmt.Errorf("token is expired")
	}

	return tokenClaims, nil
}

// DecodeExpiry extracts the expiry claim without verifying the
// signature. Used only by the owning server to size revocation records;
// never a substitute for Validate.
func (j *JWTManager) DecodeExpiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode token: %w", err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}

	return exp.Time, nil
}

// TokenExpirySeconds returns the configured token lifetime in seconds.
func (j *JWTManager) TokenExpirySeconds() int {
	return int(j.tokenExpiry.Seconds())
}
