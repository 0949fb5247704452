package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	token, err := signer.Issue("admin@example.com", "admin", KindUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "admin@example.com" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Role != "admin" || claims.Kind != KindUser {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	signer.nowFunc = func() time.Time { return issuedAt }

	token, err := signer.Issue("buyer@example.com", "customer", KindCustomer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	signer.nowFunc = time.Now
	if _, err := signer.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewSigner("secret-a", time.Hour).Issue("a@example.com", "staff", KindUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewSigner("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyRejectsUnknownKind(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)
	token, err := signer.Issue("a@example.com", "staff", "service")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := signer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for unknown kind, got %v", err)
	}
}
