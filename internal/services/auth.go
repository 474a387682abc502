package services

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller as asserted by the identity provider.
type Identity struct {
	UserID string
	Email  string
}

// AuthService verifies bearer tokens issued by the external identity
// provider. This service never issues identities of its own.
type AuthService struct {
	jwtSecret string
}

// NewAuthService creates a new auth service
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: jwtSecret}
}

// ValidateJWT validates a token and returns the identity it carries
func (s *AuthService) ValidateJWT(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("sub not found in token")
	}

	// Email is optional in the token; used only to seed usernames.
	email, _ := claims["email"].(string)

	return &Identity{UserID: userID, Email: email}, nil
}
