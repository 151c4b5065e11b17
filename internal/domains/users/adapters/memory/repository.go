package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ifan/go-mall-api/internal/domains/users/domain"
	"github.com/ifan/go-mall-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory account persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	users   map[int64]*domain.User
	byEmail map[string]int64
	nextID  int64
}

func NewRepository() *Repository {
	return &Repository{users: map[int64]*domain.User{}, byEmail: map[string]int64{}}
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrNilUser
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if clone.ID == 0 {
		if _, taken := r.byEmail[clone.Email]; taken {
			return nil, ports.ErrEmailTaken
		}
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedDate = now
	} else {
		if owner, taken := r.byEmail[clone.Email]; taken && owner != clone.ID {
			return nil, ports.ErrEmailTaken
		}
		if existing, ok := r.users[clone.ID]; ok {
			clone.CreatedDate = existing.CreatedDate
			if existing.Email != clone.Email {
				delete(r.byEmail, existing.Email)
			}
		} else if clone.CreatedDate.IsZero() {
			clone.CreatedDate = now
		}
		if clone.ID > r.nextID {
			r.nextID = clone.ID
		}
	}
	clone.LastModifiedDate = now
	r.users[clone.ID] = &clone
	r.byEmail[clone.Email] = clone.ID
	result := clone
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, userID int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *r.users[userID]
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ports.ErrNotFound
	}
	delete(r.byEmail, user.Email)
	delete(r.users, userID)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}
	return users, nil
}
