package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/splitpal/splitpal/internal/ledger"
	"github.com/splitpal/splitpal/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least 8 characters", ledger.ErrValidation)
	ErrInvalidPhone       = fmt.Errorf("%w: phone number must look like +<country>-<10 digits>", ledger.ErrValidation)
	ErrBlankName          = fmt.Errorf("%w: name cannot be blank", ledger.ErrValidation)
	ErrPhoneExists        = fmt.Errorf("%w: phone number already registered", ledger.ErrAlreadyExists)
)

var phonePattern = regexp.MustCompile(`^\+\d{1,3}-\d{10}$`)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// ValidatePhoneNumber checks the +<country code>-<10 digits> format.
func ValidatePhoneNumber(phoneNumber string) error {
	if !phonePattern.MatchString(phoneNumber) {
		return ErrInvalidPhone
	}
	return nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, name, phoneNumber, credential string) (*models.User, error) {
	name = strings.TrimSpace(name)
	phoneNumber = strings.TrimSpace(phoneNumber)

	if name == "" {
		return nil, ErrBlankName
	}
	if err := ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	existingUser, err := a.storage.GetUserByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up phone number: %w", err)
	}
	if existingUser != nil {
		return nil, ErrPhoneExists
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(name, phoneNumber, string(hashedPassword))

	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the phone number and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, phoneNumber, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByPhone(ctx, strings.TrimSpace(phoneNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Compare password hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
