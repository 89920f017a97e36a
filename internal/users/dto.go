package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID          uuid.UUID    `json:"id"`
	Email       string       `json:"email"`
	Username    string       `json:"username"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Roles       []enums.Role `json:"roles"`
	LastLoginAt *time.Time   `json:"last_login_at,omitempty"`
}

// CreateUserDTO holds the data required to persist a new user.
type CreateUserDTO struct {
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []enums.Role
}

func FromModel(u *models.User, roles []enums.Role) *UserDTO {
	if u == nil {
		return nil
	}
	if roles == nil {
		roles = []enums.Role{}
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Roles:       roles,
		LastLoginAt: u.LastLoginAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	now := time.Now().UTC()
	username := c.Username
	if username == "" {
		username = c.Email
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		Username:     username,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
