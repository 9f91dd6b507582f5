package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "auth:blacklist:"

// TokenBlacklistRepository records revoked token ids until their natural expiry.
type TokenBlacklistRepository struct {
	client *redis.Client
}

// NewTokenBlacklistRepository constructs the repository. With a nil client revocation is a no-op.
func NewTokenBlacklistRepository(client *redis.Client) *TokenBlacklistRepository {
	return &TokenBlacklistRepository{client: client}
}

// Enabled reports whether revocations are persisted.
func (r *TokenBlacklistRepository) Enabled() bool {
	return r != nil && r.client != nil
}

// Revoke blacklists tokenID until expiresAt. Already expired tokens are ignored.
func (r *TokenBlacklistRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if !r.Enabled() || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, blacklistPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been blacklisted.
func (r *TokenBlacklistRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !r.Enabled() || tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, blacklistPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
