package ports

import (
	"context"
	"time"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenStore keeps revoked session token ids until they would expire anyway.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Metrics interface {
	MealResponseSubmitted()
	PassChecked(meal string, status string)
	ReportRequested(status string)
}
