package auth

import (
	"errors"
	"testing"
	"time"
)

func testService(expiry time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SigningKey:  "test-signing-key",
		TokenExpiry: expiry,
		Issuer:      "invoice-pipeline",
	})
}

func TestGenerateValidate_RoundTrip(t *testing.T) {
	svc := testService(time.Hour)

	token, err := svc.Generate("user@example.com", true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "user@example.com" {
		t.Errorf("expected subject user@example.com, got %q", claims.Subject)
	}
	if !claims.Admin {
		t.Error("expected admin claim to be true")
	}
	if claims.Issuer != "invoice-pipeline" {
		t.Errorf("expected issuer invoice-pipeline, got %q", claims.Issuer)
	}
}

func TestValidate_NonAdminClaims(t *testing.T) {
	svc := testService(time.Hour)

	token, err := svc.Generate("viewer@example.com", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Admin {
		t.Error("expected admin claim to be false")
	}
}

func TestValidate_Expired(t *testing.T) {
	svc := testService(-time.Minute)

	token, err := svc.Generate("user@example.com", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = svc.Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	svc := testService(time.Hour)

	_, err := svc.Validate("not-a-jwt")
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestValidate_WrongKey(t *testing.T) {
	token, err := testService(time.Hour).Generate("user@example.com", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewJWTService(JWTConfig{SigningKey: "different-key"})
	if _, err := other.Validate(token); err == nil {
		t.Error("expected error for token signed with a different key")
	}
}
