package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	secret := []byte("test-secret")
	id := Identity{UserID: "user-1", UserName: "Dana", Role: "professional"}

	token, err := Issue(secret, id, "jti-1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, jti, err := Verify(secret, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != id {
		t.Fatalf("identity mismatch: got %+v want %+v", got, id)
	}
	if jti != "jti-1" {
		t.Fatalf("jti mismatch: got %q", jti)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Issue(secret, Identity{UserID: "u", UserName: "n", Role: "client"}, "j", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, _, err := Verify([]byte("other-secret"), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: expected ErrInvalidToken, got %v", err)
	}

	payload, _, _ := strings.Cut(token, ".")
	if _, _, err := Verify(secret, payload+".forged"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("forged signature: expected ErrInvalidToken, got %v", err)
	}
	if _, _, err := Verify(secret, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("malformed token: expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Issue(secret, Identity{UserID: "u", UserName: "n", Role: "client"}, "j", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := Verify(secret, token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}
