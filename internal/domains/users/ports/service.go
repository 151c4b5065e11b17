package ports

import (
	"context"

	"github.com/ifan/go-mall-api/internal/domains/users/domain"
)

// Service exposes account use cases to adapters.
type Service interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a bearer token to the account that owns it.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
}
