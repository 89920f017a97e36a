package auth

import (
	"github.com/balarco/balarco-backend/internal/users"
	"github.com/balarco/balarco-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest pairs the last access token with its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse contains the tokens and the user produced by a login or refresh.
type TokenResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RegisterRequest describes an account created by an operator.
type RegisterRequest struct {
	Email     string       `validate:"required,email"`
	Username  string       `validate:"omitempty,max=150"`
	Password  string       `validate:"required,min=8"`
	FirstName string       `validate:"max=150"`
	LastName  string       `validate:"max=150"`
	Roles     []enums.Role `validate:"required,min=1"`
}
