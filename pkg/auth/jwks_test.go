package auth

import (
	"encoding/base64"
	"fmt"
	"testing"
)

// unsignedToken builds a structurally valid JWT with no signature.
func unsignedToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return fmt.Sprintf("%s.%s.", header, body)
}

func newDevVerifier(t *testing.T) *JWKSVerifier {
	t.Helper()
	verifier, err := NewJWKSVerifier(&JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}
	return verifier
}

func TestVerifyToken_DisabledVerification(t *testing.T) {
	verifier := newDevVerifier(t)

	token := unsignedToken(`{"sub":"provider-uid-1","email":"user@example.com"}`)
	claims, err := verifier.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.Subject != "provider-uid-1" {
		t.Errorf("expected subject provider-uid-1, got %q", claims.Subject)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("expected email user@example.com, got %q", claims.Email)
	}
}

func TestVerifyToken_DisabledVerification_NoSubject(t *testing.T) {
	verifier := newDevVerifier(t)

	token := unsignedToken(`{"email":"user@example.com"}`)
	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("expected error for token without subject")
	}
}

func TestVerifyToken_DisabledVerification_Garbage(t *testing.T) {
	verifier := newDevVerifier(t)

	if _, err := verifier.VerifyToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestVerifyToken_EnabledRejectsUnsigned(t *testing.T) {
	verifier, err := NewJWKSVerifier(&JWKSConfig{
		EnableVerification: true,
		JWKSEndpoints:      map[string]string{},
	})
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	token := unsignedToken(`{"sub":"uid","iss":"https://idp.example.com"}`)
	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("expected unsigned token to be rejected when verification is enabled")
	}
}
