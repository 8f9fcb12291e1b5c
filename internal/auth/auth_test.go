package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/softcentric/tracker/internal/models"
)

type staticUsers []models.User

func (s staticUsers) List(context.Context) ([]models.User, error) { return s, nil }

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	authenticator := NewAuthenticator(staticUsers{
		{Username: "bob", Password: "Secret", Role: models.RoleMember},
		{Username: "bob", Password: "shadowed", Role: models.RoleAdmin},
		{Username: "root", Password: "hunter2", Role: models.RoleAdmin},
	})

	t.Run("valid credentials return the account", func(t *testing.T) {
		user, err := authenticator.Authenticate(ctx, "root", "hunter2")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Role != models.RoleAdmin {
			t.Errorf("role = %q", user.Role)
		}
	})

	t.Run("comparison is exact and case-sensitive", func(t *testing.T) {
		if _, err := authenticator.Authenticate(ctx, "bob", "secret"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user is invalid credentials, not not-found", func(t *testing.T) {
		if _, err := authenticator.Authenticate(ctx, "ghost", "x"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("duplicate usernames resolve to the first record", func(t *testing.T) {
		user, err := authenticator.Authenticate(ctx, "bob", "Secret")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Role != models.RoleMember {
			t.Errorf("expected first bob record, got role %q", user.Role)
		}
		// The second record still matches its own password.
		user, err = authenticator.Authenticate(ctx, "bob", "shadowed")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Role != models.RoleAdmin {
			t.Errorf("expected second bob record, got role %q", user.Role)
		}
	})
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := models.User{Username: "bob", Role: models.RoleMember}

	t.Run("round trip preserves username and role", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.Username != "bob" || claims.Role != models.RoleMember {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		other := NewJWTManager("other-secret", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
