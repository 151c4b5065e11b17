package ports

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore abstracts bearer-token session persistence. Tokens are the
// primary key; a user may hold several concurrent sessions.
type SessionStore interface {
	Save(ctx context.Context, token string, userID int64) error
	// Lookup resolves a token to the owning user. Expired or unknown tokens
	// fail with ErrSessionNotFound.
	Lookup(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
}
