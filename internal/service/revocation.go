package service

import (
	"context"
	"fmt"
	"time"

	"github.com/voyago/identity-service/pkg/database"
	"go.uber.org/zap"
)

// RevocationLedger records tokens invalidated before their natural
// expiry. Records live in Redis with a TTL equal to the remaining token
// lifetime, so the ledger is bounded to "revoked but not yet expired"
// and purges itself.
type RevocationLedger struct {
	redis  *database.Redis
	logger *zap.Logger
}

// NewRevocationLedger creates a new revocation ledger
func NewRevocationLedger(redis *database.Redis, logger *zap.Logger) *RevocationLedger {
	return &RevocationLedger{redis: redis, logger: logger}
}

func revocationKey(token string) string {
	return fmt.Sprintf("revoked:token:%s", token)
}

// Revoke upserts a revocation record keyed by the token string.
// Revoking an already-revoked token rewrites the same record, so the
// call is idempotent. Tokens that have already expired are not recorded.
func (l *RevocationLedger) Revoke(ctx context.Context, token, ownerID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	err := l.redis.Client.Set(ctx, revocationKey(token), ownerID, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to record revocation: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token has been revoked. A failed lookup is
// treated as "not revoked": the ledger fails open, trading strictness
// for availability. The error is logged, never surfaced.
func (l *RevocationLedger) IsRevoked(ctx context.Context, token string) bool {
	exists, err := l.redis.Client.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		l.logger.Warn("revocation lookup failed, failing open", zap.Error(err))
		return false
	}
	return exists > 0
}
