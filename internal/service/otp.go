package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPStatus is the outcome of checking a provided code against a stored
// pair.
type OTPStatus int

const (
	OTPOk OTPStatus = iota
	OTPMissing
	OTPExpired
	OTPMismatch
)

// OTPManager generates and checks short-lived numeric codes. It holds no
// state: each purpose (verification, reset) owns its stored pair on the
// identity, and the caller clears a pair after consuming an OTPOk.
type OTPManager struct {
	ttl time.Duration
}

// NewOTPManager creates an OTP manager with the configured code lifetime.
func NewOTPManager(ttl time.Duration) *OTPManager {
	return &OTPManager{ttl: ttl}
}

// Generate draws a 6-digit code uniformly from [100000, 999999] and
// stamps it with the configured expiry.
func (m *OTPManager) Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate otp: %w", err)
	}

	code := fmt.Sprintf("%06d", n.Int64()+100000)
	return code, time.Now().Add(m.ttl), nil
}

// Check validates a provided code against a stored pair. Expiry is
// checked before the code itself so an expired code fails even when it
// matches exactly.
func (m *OTPManager) Check(provided string, stored *string, expiry *time.Time) OTPStatus {
	if stored == nil || expiry == nil {
		return OTPMissing
	}
	if time.Now().After(*expiry) {
		return OTPExpired
	}
	if provided != *stored {
		return OTPMismatch
	}
	return OTPOk
}
