package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret-key-for-unit-tests-only", time.Hour)

	token, err := m.Generate(42, "alice@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("Generate returned empty token")
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", claims.Email)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret-key-for-unit-tests-only", -time.Minute)

	token, err := m.Generate(1, "bob@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Validate(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	m1 := NewJWTManager("secret-one-secret-one-secret-one", time.Hour)
	m2 := NewJWTManager("secret-two-secret-two-secret-two", time.Hour)

	token, err := m1.Generate(1, "carol@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m2.Validate(token); err == nil {
		t.Fatal("expected error for token signed with different secret")
	}
}

func TestValidateGarbage(t *testing.T) {
	m := NewJWTManager("test-secret-key-for-unit-tests-only", time.Hour)

	if _, err := m.Validate("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
