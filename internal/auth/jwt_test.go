package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	manager := NewJWTManager(testSecret, "moviereviews-test", 15*time.Minute)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(Identity{UserID: userID, Name: "Ripley"})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	id, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if id.UserID != userID {
		t.Errorf("expected userID %s, got %s", userID, id.UserID)
	}
	if id.Name != "Ripley" {
		t.Errorf("expected name Ripley, got %q", id.Name)
	}
}

func TestJWTManager_GenerateAccessToken_NilUser(t *testing.T) {
	manager := NewJWTManager(testSecret, "moviereviews-test", time.Minute)

	if _, err := manager.GenerateAccessToken(Identity{}); err == nil {
		t.Fatal("expected error for nil user id")
	}
}

func TestJWTManager_Validate_Expired(t *testing.T) {
	manager := NewJWTManager(testSecret, "moviereviews-test", -time.Minute)

	token, err := manager.GenerateAccessToken(Identity{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestJWTManager_Validate_WrongSecret(t *testing.T) {
	signer := NewJWTManager(testSecret, "moviereviews-test", time.Minute)
	verifier := NewJWTManager("another-secret-that-is-also-32-chars-long", "moviereviews-test", time.Minute)

	token, err := signer.GenerateAccessToken(Identity{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := verifier.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestJWTManager_Validate_WrongIssuer(t *testing.T) {
	signer := NewJWTManager(testSecret, "someone-else", time.Minute)
	verifier := NewJWTManager(testSecret, "moviereviews-test", time.Minute)

	token, err := signer.GenerateAccessToken(Identity{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = verifier.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer")
	}
	if !strings.Contains(err.Error(), "parse token") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestJWTManager_Validate_Empty(t *testing.T) {
	manager := NewJWTManager(testSecret, "", time.Minute)

	if _, err := manager.ValidateAccessToken(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}
