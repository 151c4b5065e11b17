package ports

import (
	"context"
	"errors"

	"github.com/ifan/go-mall-api/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Repository interface {
	// Save inserts a new user or updates an existing one. Inserting a user
	// whose email is already registered fails with ErrEmailTaken.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Delete(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]*domain.User, error)
}
