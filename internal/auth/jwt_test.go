package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/splitpal/splitpal/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *models.User {
	return &models.User{ID: "4b7c1f0e-4f6c-4a4e-9a8b-0d3f2f1e5a11", PhoneNumber: "+91-9876543210"}
}

func TestGeneratePair(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute, 24*time.Hour)

	pair, err := m.GeneratePair(testUser())
	if err != nil {
		t.Fatalf("GeneratePair failed: %v", err)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens should differ")
	}
	if !pair.RefreshExpiresAt.After(pair.AccessExpiresAt) {
		t.Error("refresh token should outlive the access token")
	}

	claims, err := m.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess failed: %v", err)
	}
	if claims.UserID != testUser().ID || claims.PhoneNumber != testUser().PhoneNumber {
		t.Errorf("Unexpected claims: %+v", claims)
	}

	if _, err := m.ValidateRefresh(pair.RefreshToken); err != nil {
		t.Errorf("ValidateRefresh failed: %v", err)
	}

	again, _ := m.GeneratePair(testUser())
	if again.RefreshToken == pair.RefreshToken {
		t.Error("two refresh tokens issued back to back should differ")
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute, 24*time.Hour)
	pair, _ := m.GeneratePair(testUser())

	other := NewJWTManager("another-secret-another-secret-xx", 15*time.Minute, 24*time.Hour)

	expired := NewJWTManager(testSecret, 15*time.Minute, 24*time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _ := expired.GeneratePair(testUser())

	tests := []struct {
		name     string
		validate func(string) (*Claims, error)
		token    string
	}{
		{"refresh token used as access", m.ValidateAccess, pair.RefreshToken},
		{"access token used as refresh", m.ValidateRefresh, pair.AccessToken},
		{"wrong secret", other.ValidateAccess, pair.AccessToken},
		{"expired access token", m.ValidateAccess, stale.AccessToken},
		{"garbage", m.ValidateAccess, "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.validate(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHashToken(t *testing.T) {
	if HashToken("a") == HashToken("b") {
		t.Error("different tokens should hash differently")
	}
	if HashToken("a") != HashToken("a") {
		t.Error("hash should be deterministic")
	}
	if len(HashToken("a")) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(HashToken("a")))
	}
}
