package models

import "time"

// DefaultGroupCredits is the number of groups a new account may create.
const DefaultGroupCredits = 3

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// PhoneNumber is unique across users and is how groups reference members.
	PhoneNumber string `json:"phone_number"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// RefreshTokenHash is the SHA-256 of the most recently issued refresh token.
	// Rotated on every login and refresh.
	RefreshTokenHash string `json:"-"`

	// GroupCredits is how many more groups this user may create.
	// Starts at DefaultGroupCredits and never goes below zero.
	GroupCredits int `json:"group_credits"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser builds a user with a fresh credit allowance.
func NewUser(name, phoneNumber, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Name:         name,
		PhoneNumber:  phoneNumber,
		PasswordHash: passwordHash,
		GroupCredits: DefaultGroupCredits,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
