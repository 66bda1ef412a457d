package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testPrincipal(username string) *Principal {
	return &Principal{Username: username, Authorities: []string{"ROLE_User"}}
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("super-secret", time.Hour)

	token, err := manager.Issue(testPrincipal("nikolas"))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	username, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if username != "nikolas" {
		t.Fatalf("username mismatch: got %q want %q", username, "nikolas")
	}
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("secret", -1*time.Second)

	token, err := manager.Issue(testPrincipal("u1"))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = manager.Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenManager("right-secret", time.Hour).Issue(testPrincipal("u2"))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenManager("wrong-secret", time.Hour).Validate(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("k", time.Hour).Validate("not.a.jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIssue_ValidityWindow(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("secret", 5*time.Hour)
	token, err := manager.Issue(testPrincipal("nikolas"))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("parse claims: %v", err)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Fatalf("expiry %v not after issued-at %v", claims.ExpiresAt, claims.IssuedAt)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token id")
	}
}

func TestSubject_DecodesWithoutVerification(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("secret", time.Hour)
	token, err := manager.Issue(testPrincipal("nikolas"))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	subject, err := manager.Subject(token)
	if err != nil {
		t.Fatalf("Subject error: %v", err)
	}
	if subject != "nikolas" {
		t.Fatalf("subject mismatch: got %q", subject)
	}
}
