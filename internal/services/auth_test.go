package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestValidateJWT(t *testing.T) {
	svc := NewAuthService("secret")

	signed := signToken(t, "secret", jwt.MapClaims{
		"sub":   "u1",
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	identity, err := svc.ValidateJWT(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if identity.UserID != "u1" || identity.Email != "alice@example.com" {
		t.Errorf("identity = %+v", identity)
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	svc := NewAuthService("secret")

	signed := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := svc.ValidateJWT(signed); err == nil {
		t.Fatal("token signed with wrong secret validated")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	svc := NewAuthService("secret")

	signed := signToken(t, "secret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := svc.ValidateJWT(signed); err == nil {
		t.Fatal("expired token validated")
	}
}

func TestValidateJWTMissingSubject(t *testing.T) {
	svc := NewAuthService("secret")

	signed := signToken(t, "secret", jwt.MapClaims{
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	if _, err := svc.ValidateJWT(signed); err == nil {
		t.Fatal("token without sub validated")
	}
}

func TestValidateJWTGarbage(t *testing.T) {
	svc := NewAuthService("secret")

	if _, err := svc.ValidateJWT("not-a-token"); err == nil {
		t.Fatal("garbage token validated")
	}
}
