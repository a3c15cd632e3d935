package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/patungan/backend/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key-at-least-16b", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("claims user id = %q, want %q", claims.UserID, user.ID)
		}
		if claims.Email != user.Email {
			t.Errorf("claims email = %q, want %q", claims.Email, user.Email)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("rejects token from another secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-key-entirely", time.Hour)
		token, err := other.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key-at-least-16b", -time.Minute)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}
