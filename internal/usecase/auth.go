package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/abzalkhan/taskboard/internal/metrics"
	"github.com/abzalkhan/taskboard/internal/repository"
)

// passwordHasher and tokenIssuer are the subsets of the auth package this
// usecase needs. Defined here (point of use) so tests can inject fakes.
type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

type tokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher passwordHasher
	tokens tokenIssuer
	logger *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, hasher passwordHasher, tokens tokenIssuer, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("component", "auth_usecase"),
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// AuthResult pairs the public user projection with a freshly issued token.
// User.PasswordHash is always empty here.
type AuthResult struct {
	User  *domain.User
	Token string
}

// Register creates a new account and signs the caller in.
// A registration race on the same email loses at the unique index and comes
// back as the same ErrEmailTaken as the up-front check.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	_, err := u.users.FindByEmail(ctx, input.Email)
	if err == nil {
		u.logger.WarnContext(ctx, "registration attempt with existing email", "email", input.Email)
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	start := time.Now()
	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())

	user, err := u.users.Create(ctx, input.Email, input.Name, hash)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	u.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
// An unknown email and a wrong password return the identical
// ErrInvalidCredentials so callers cannot probe which emails are registered.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			u.logger.WarnContext(ctx, "login attempt with unknown email", "email", email)
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := u.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		u.logger.WarnContext(ctx, "login attempt with wrong password", "user_id", user.ID)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	u.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	// The hash stays behind the usecase boundary.
	public := *user
	public.PasswordHash = ""
	return &AuthResult{User: &public, Token: token}, nil
}
