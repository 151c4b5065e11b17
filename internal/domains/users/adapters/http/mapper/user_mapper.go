package mapper

import (
	"time"

	userdomain "github.com/ifan/go-mall-api/internal/domains/users/domain"
)

// RegisterRequest carries registration credentials.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the transport representation of an account. The password
// hash never leaves the service.
type UserResponse struct {
	UserID           int64     `json:"userId"`
	Email            string    `json:"email"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`
}

// LoginResponse carries the opened session token with the account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// FromDomain converts a domain account into its transport representation.
func FromDomain(user *userdomain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		UserID:           user.ID,
		Email:            user.Email,
		CreatedDate:      user.CreatedDate,
		LastModifiedDate: user.LastModifiedDate,
	}
}
