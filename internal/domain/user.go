package domain

import (
	"errors"
	"time"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // empty when loaded through a projection
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
