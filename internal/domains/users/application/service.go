package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ifan/go-mall-api/internal/domains/users/domain"
	"github.com/ifan/go-mall-api/internal/domains/users/ports"
)

// Service exposes account use cases: registration, credential login with
// bearer-token sessions, and token resolution for the HTTP auth middleware.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
}

func NewService(repo ports.Repository, sessions ports.SessionStore) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Register creates an account for a previously unseen e-mail address.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return nil, mapError(ports.ErrEmailTaken)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login verifies credentials and opens a session, returning its token. A
// missing account and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return "", nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", nil, mapError(ports.ErrInvalidCredentials)
		}
		return "", nil, err
	}
	if !user.CheckPassword(password) {
		return "", nil, mapError(ports.ErrInvalidCredentials)
	}
	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, user.ID); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout closes the session named by the token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token to the account that owns it.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, mapError(ports.ErrSessionNotFound)
	}
	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			// The account was deleted while its session lived on.
			_ = s.sessions.DeleteByUser(context.WithoutCancel(ctx), userID)
			return nil, mapError(ports.ErrSessionNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

var _ ports.Service = (*Service)(nil)
