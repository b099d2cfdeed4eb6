package service

import (
	"context"

	"wego/internal/core/crypto"
	"wego/internal/core/session"
	"wego/internal/domain"
)

type AuthService struct {
	users    domain.UserRepository
	hasher   *crypto.Hasher
	sessions *session.Manager
}

func NewAuthService(users domain.UserRepository, hasher *crypto.Hasher, sessions *session.Manager) *AuthService {
	return &AuthService{users: users, hasher: hasher, sessions: sessions}
}

// Login resolves the account by username or email, checks the password and
// binds a fresh session. Unknown account and wrong password produce the same
// generic error so usernames cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.User, string, error) {
	if len(login) < 5 || len(login) > 30 {
		return nil, "", domain.E(domain.KindValidation, "login must be 5-30 characters")
	}
	if len(password) < 8 || len(password) > 30 {
		return nil, "", domain.E(domain.KindValidation, "password must be 8-30 characters")
	}

	badCredentials := domain.E(domain.KindUnauthenticated, "invalid username, email or password")

	u, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, "", badCredentials
		}
		return nil, "", err
	}

	ok, err := s.hasher.Verify(ctx, u.PasswordHash, password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", badCredentials
	}

	token, err := s.sessions.Issue(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout always succeeds, with or without a live session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}
