package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/patungan/backend/internal/auth"
	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/storage"
)

// AuthService handles account registration, login and profile management.
type AuthService struct {
	store         storage.Store
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates an AuthService.
func NewAuthService(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		store:         store,
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register creates an account and returns the user with a session token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	if email == "" || displayName == "" {
		return nil, "", fmt.Errorf("%w: email and display name are required", models.ErrValidation)
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the user's account.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", storage.ErrNotFound, userID)
	}
	return user, nil
}

// UpdateProfile changes the display name and, when password is non-empty,
// the password.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, displayName, password string) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if displayName != "" {
		user.DisplayName = displayName
	}
	if password != "" {
		if err := s.authenticator.ValidateCredential(password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user's account.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	return s.store.DeleteUser(ctx, userID)
}
