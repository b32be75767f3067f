package repository

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for entry token persistence.
var (
	// ErrTokenNotFound is returned when no token exists for a nonce.
	ErrTokenNotFound = errors.New("entry token not found")
	// ErrTokenExists is returned when a nonce collides with a stored token.
	ErrTokenExists = errors.New("entry token already exists")
	// ErrTokenAlreadyConsumed is returned when a conditional consume loses to an earlier one.
	ErrTokenAlreadyConsumed = errors.New("entry token already consumed")
)

// TokenConsumer is the transactional part of token persistence.
type TokenConsumer interface {
	// ConsumeToken marks the token consumed only if it is still unconsumed.
	// Exactly one of any number of concurrent calls for the same nonce succeeds;
	// the others get ErrTokenAlreadyConsumed.
	ConsumeToken(ctx context.Context, nonce string, consumedAt time.Time) error
}

// TokenRepository defines entry token persistence.
type TokenRepository interface {
	TokenConsumer

	// CreateToken stores a new token. It fails with ErrTokenExists on a nonce collision.
	CreateToken(ctx context.Context, token *entity.EntryToken) error

	// FindToken retrieves a token by nonce.
	FindToken(ctx context.Context, nonce string) (*entity.EntryToken, error)

	// DeleteExpiredTokens removes tokens that expired before the given time and reports how many went.
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}
