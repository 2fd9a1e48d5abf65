package repository

import (
	"context"

	"github.com/abzalkhan/taskboard/internal/domain"
)

// UserRepository persists identity records.
//
// FindByEmail returns the full record including the password hash — login
// needs it for verification. FindByID returns a projection with the hash
// stripped; the hash never travels further than the auth usecase.
type UserRepository interface {
	Create(ctx context.Context, email, name, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
