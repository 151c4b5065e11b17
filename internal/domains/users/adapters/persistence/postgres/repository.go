package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ifan/go-mall-api/internal/domains/users/domain"
	"github.com/ifan/go-mall-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists accounts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&userRecord{})
	}
	return repo
}

type userRecord struct {
	ID               int64     `gorm:"primaryKey;column:user_id;autoIncrement"`
	Email            string    `gorm:"column:email;uniqueIndex"`
	PasswordHash     string    `gorm:"column:password_hash"`
	CreatedDate      time.Time `gorm:"column:created_date"`
	LastModifiedDate time.Time `gorm:"column:last_modified_date"`
}

func (userRecord) TableName() string { return "users" }

// Save inserts a new account or updates an existing one by primary key. A
// violated email uniqueness constraint surfaces as ErrEmailTaken.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNilUser
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(&clone)
	record.LastModifiedDate = time.Now()
	if record.ID == 0 {
		record.CreatedDate = record.LastModifiedDate
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrEmailTaken
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, userID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("user_id").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:               user.ID,
		Email:            user.Email,
		PasswordHash:     user.PasswordHash,
		CreatedDate:      user.CreatedDate,
		LastModifiedDate: user.LastModifiedDate,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:               r.ID,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		CreatedDate:      r.CreatedDate,
		LastModifiedDate: r.LastModifiedDate,
	}
}
