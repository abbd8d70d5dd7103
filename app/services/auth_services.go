package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/app/repositories"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/logger"
	"github.com/shashiranjanraj/nutritrack/pkg/metrics"
)

// ErrCredentialMismatch hides which of email or password was wrong.
var ErrCredentialMismatch = errors.New("email and password don't match")

// TokenName labels every token issued on register and login.
const TokenName = "bearerToken"

// UserStore is the part of the user repository the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

// TokenIssuer issues and revokes bearer tokens. *auth.Tokens satisfies it.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uint, name string) (string, error)
	Revoke(ctx context.Context, id auth.Identity) error
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register stores a new user with a bcrypt hash of password and issues the
// first token. If the token cannot be issued the user row is removed again,
// so the email stays free for a retry.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(ctx, user.ID, TokenName)
	if err != nil {
		if derr := s.users.Delete(context.WithoutCancel(ctx), user.ID); derr != nil {
			logger.WithCtx(ctx).Error("undo registration", "user_id", user.ID, "error", derr)
		}
		return nil, "", fmt.Errorf("issue first token: %w", err)
	}

	metrics.RecordAuthEvent("register")
	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks the credentials and issues a fresh token. Every previously
// issued token stays valid.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.RecordAuthEvent("login_failed")
		return nil, "", ErrCredentialMismatch
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(user.Password, password) {
		metrics.RecordAuthEvent("login_failed")
		return nil, "", ErrCredentialMismatch
	}

	token, err := s.tokens.Issue(ctx, user.ID, TokenName)
	if err != nil {
		return nil, "", err
	}

	metrics.RecordAuthEvent("login")
	return user, token, nil
}

// Logout revokes only the token the request was made with.
func (s *AuthService) Logout(ctx context.Context, id auth.Identity) error {
	if err := s.tokens.Revoke(ctx, id); err != nil {
		return err
	}
	metrics.RecordAuthEvent("logout")
	return nil
}
