package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService manages accounts. No HTTP endpoint uses it yet; answers carry an
// optional user id for a future association.
type UserService struct {
	store ports.UserStore
}

func NewUserService(store ports.UserStore) *UserService {
	return &UserService{store: store}
}

// Register creates a user with a hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, &domain.ValidationError{Message: "username and password are required"}
	}

	hash, err := domain.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.store.CreateUser(ctx, domain.NewUser{Username: username, Password: hash})
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user when password matches.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	ok, err := domain.VerifyPassword(u.Password, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}
