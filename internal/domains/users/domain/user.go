package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNilUser       = errors.New("user is nil")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 4 characters")
)

// User is an account identified by its e-mail address. Only the bcrypt hash
// of the password is ever held or persisted.
type User struct {
	ID               int64
	Email            string
	PasswordHash     string
	CreatedDate      time.Time
	LastModifiedDate time.Time
}

// NewUser builds a user from raw registration credentials, hashing the
// password.
func NewUser(email, password string) (*User, error) {
	user := &User{}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetEmail normalizes and validates the e-mail identity.
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetPassword validates the raw password and stores its bcrypt hash.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 4 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the supplied credentials against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))) == nil
}

// Validate re-applies core invariants for persistence. The hash is opaque so
// only its presence can be checked here.
func (u *User) Validate() error {
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrEmptyPassword
	}
	return nil
}
