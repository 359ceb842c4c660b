// Package auth issues and verifies credentials: bcrypt password checks keyed
// by phone number, and HS256 access/refresh token pairs.
package auth

import (
	"context"

	"github.com/splitpal/splitpal/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, OTP, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given name, phone number and credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, name, phoneNumber, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, phoneNumber, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
