package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ifan/go-mall-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore persists bearer-token sessions in PostgreSQL.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB, sessionTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	store := &SessionStore{db: db, ttl: sessionTTL}
	if db != nil {
		_ = db.AutoMigrate(&sessionRecord{})
	}
	return store
}

type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	UserID    int64      `gorm:"column:user_id;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Save upserts a session keyed by token.
func (s *SessionStore) Save(ctx context.Context, token string, userID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" || userID == 0 {
		return errors.New("token and user id are required")
	}
	expiry := time.Now().Add(s.ttl)
	rec := sessionRecord{Token: token, UserID: userID, ExpiresAt: &expiry}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Lookup resolves an unexpired token to its owning user.
func (s *SessionStore) Lookup(ctx context.Context, token string) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).
		Where("token = ? AND (expires_at IS NULL OR expires_at > ?)", strings.TrimSpace(token), time.Now()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ports.ErrSessionNotFound
		}
		return 0, err
	}
	return rec.UserID, nil
}

// Delete removes a session by token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "token = ?", token).Error
}

// DeleteByUser removes every session owned by a user.
func (s *SessionStore) DeleteByUser(ctx context.Context, userID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "user_id = ?", userID).Error
}

// PurgeExpired removes all expired sessions. Used by the housekeeping job.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
