package auth

import (
	"testing"
	"time"

	"github.com/duka/loanbook/internal/models"
)

func TestSessionManager(t *testing.T) {
	user := &models.User{ID: "user-1", Username: "operator"}

	t.Run("issue and validate roundtrip", func(t *testing.T) {
		m := NewSessionManager("test-secret", time.Hour)

		token, err := m.Issue(user)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != "user-1" || claims.Username != "operator" {
			t.Errorf("claims = %+v, want user-1/operator", claims)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := NewSessionManager("secret-a", time.Hour).Issue(user)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		if _, err := NewSessionManager("secret-b", time.Hour).Validate(token); err == nil {
			t.Error("expected validation to fail with a different secret")
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		m := NewSessionManager("test-secret", -time.Minute)

		token, err := m.Issue(user)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		if _, err := m.Validate(token); err == nil {
			t.Error("expected validation to fail for an expired token")
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		m := NewSessionManager("test-secret", time.Hour)
		if _, err := m.Validate("not-a-token"); err == nil {
			t.Error("expected validation to fail for garbage input")
		}
	})
}
