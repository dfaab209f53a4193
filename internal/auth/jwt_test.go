package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", time.Hour, 24*time.Hour, "mangal", "mangal")

	access, refresh, err := a.GenerateTokens(42)
	if err != nil {
		t.Fatal(err)
	}

	token, err := a.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if sub := claims["sub"].(float64); sub != 42 {
		t.Errorf("sub = %v", sub)
	}

	if _, err := a.ValidateRefreshToken(refresh); err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}

	// The secrets must not be interchangeable.
	if _, err := a.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token validated as an access token")
	}
	if _, err := a.ValidateRefreshToken(access); err == nil {
		t.Error("access token validated as a refresh token")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", -time.Minute, -time.Minute, "mangal", "mangal")

	access, _, err := a.GenerateTokens(42)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.ValidateAccessToken(access); err == nil {
		t.Error("expired token validated")
	}
}
