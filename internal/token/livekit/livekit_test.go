package livekit

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/roomgate/internal/token"
)

const (
	testKey    = "K1"
	testSecret = "super-secret-signing-key-0123456789"
)

func fullGrantClaims(room string) token.Claims {
	return token.Claims{
		Identity: "user-web-client",
		Name:     "Web User",
		Grant: token.Grant{
			RoomJoin:       true,
			Room:           room,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		},
	}
}

func TestSign_EncodesClaims(t *testing.T) {
	claims := fullGrantClaims("lobby")

	jwt, err := New().Sign(testKey, testSecret, claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	decoded, err := Inspect(jwt, testSecret)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !decoded.Verified {
		t.Fatalf("expected verified token")
	}
	if decoded.APIKey != testKey {
		t.Errorf("expected issuer %q, got %q", testKey, decoded.APIKey)
	}
	if decoded.Claims != claims {
		t.Errorf("decoded claims %+v, want %+v", decoded.Claims, claims)
	}
}

func TestSign_UsesDefaultValidity(t *testing.T) {
	jwt, err := New().Sign(testKey, testSecret, fullGrantClaims("lobby"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	decoded, err := Inspect(jwt, "")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if decoded.Verified {
		t.Fatalf("expected unverified decode without secret")
	}
	if decoded.ExpiresAt == nil {
		t.Fatalf("expected an expiry from the SDK default")
	}
	if !decoded.ExpiresAt.After(time.Now()) {
		t.Fatalf("token already expired at %v", decoded.ExpiresAt)
	}
}

func TestSign_EmptySecretFails(t *testing.T) {
	if _, err := New().Sign(testKey, "", fullGrantClaims("lobby")); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := New().Sign("", testSecret, fullGrantClaims("lobby")); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestInspect_WrongSecret(t *testing.T) {
	jwt, err := New().Sign(testKey, testSecret, fullGrantClaims("lobby"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := Inspect(jwt, "another-secret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestInspect_Garbage(t *testing.T) {
	if _, err := Inspect("not-a-token", ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
