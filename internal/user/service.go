package user

import (
	"context"
	"errors"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/auth"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Signup(ctx context.Context, username, email, password string) (User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ResolveUsername(ctx context.Context, username string) (int64, error)
}

type service struct {
	repo   Repository
	tokens *auth.Manager
}

func NewService(repo Repository, tokens *auth.Manager) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, username, email, password string) (User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return User{}, err
	}

	u, err := s.repo.Create(ctx, username, email, hashed)
	if err != nil {
		return User{}, err
	}

	log.Info("user created",
		zap.Int64("user_id", u.ID),
		zap.String("username", username),
	)

	return u, nil
}

// Login verifies the password and issues a bearer token with the username as
// subject. Unknown username and wrong password are indistinguishable to the
// caller.
func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	log := logger.FromCtx(ctx)

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !CheckPasswordHash(password, u.PasswordHash) {
		log.Warn("login rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(u.Username)
}

// ResolveUsername maps a verified token subject to the internal user id.
// ErrUserNotFound here means the credential was once valid but the user row
// is gone; it is a distinct condition from credential invalidity.
func (s *service) ResolveUsername(ctx context.Context, username string) (int64, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}
