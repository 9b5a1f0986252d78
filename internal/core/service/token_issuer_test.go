package service

import (
	"testing"
	"time"

	"github.com/chatterbox/auth-service/internal/core/domain"
)

func TestTokenIssuer_SignVerifyRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-secret", 15*time.Minute)
	user := &domain.User{ID: "user-1", Username: "carol"}

	tokenString, err := issuer.Sign(user)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := issuer.Verify(tokenString)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.ID != "user-1" || claims.Username != "carol" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 15*time.Minute {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-secret", 15*time.Minute)
	other := NewTokenIssuer("another-secret", 15*time.Minute)

	tokenString, err := other.Sign(&domain.User{ID: "user-1", Username: "carol"})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := issuer.Verify(tokenString); err == nil {
		t.Fatalf("expected verification failure for foreign signature")
	}
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-secret", -time.Minute)

	tokenString, err := issuer.Sign(&domain.User{ID: "user-1", Username: "carol"})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := issuer.Verify(tokenString); err == nil {
		t.Fatalf("expected verification failure for expired token")
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-secret", 15*time.Minute)

	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.Verify(tokenString); err == nil {
			t.Fatalf("expected verification failure for %q", tokenString)
		}
	}
}

func TestTokenIssuer_RejectsUnsignedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-secret", 15*time.Minute)

	// alg "none" with an empty signature.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJpZCI6InVzZXItMSIsInVzZXJuYW1lIjoiY2Fyb2wifQ."
	if _, err := issuer.Verify(unsigned); err == nil {
		t.Fatalf("expected verification failure for unsigned token")
	}
}
