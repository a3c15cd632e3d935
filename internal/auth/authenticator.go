// Package auth implements password-based authentication and JWT session
// tokens for the Patungan backend.
package auth

import (
	"context"

	"github.com/patungan/backend/internal/models"
)

// Authenticator abstracts the credential scheme so the service layer does
// not care whether users sign in with passwords, passkeys or OAuth.
type Authenticator interface {
	// Register creates a new user account. The credential format depends on
	// the implementation (a plain password here).
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks whether the credential meets the scheme's
	// requirements before any storage round-trip.
	ValidateCredential(credential string) error
}
