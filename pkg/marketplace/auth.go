package marketplace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialClaims are the claims carried by a marketplace credential token
type CredentialClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ParseCredentialToken decodes the credential token returned by the
// marketplace and checks its expiry. The client does not hold the signing
// secret, so the signature itself is the server's concern; what the client
// needs is the user id and a usable expiry.
func ParseCredentialToken(tokenString string) (*CredentialClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token cannot be empty")
	}

	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims := &CredentialClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("credential token is expired")
	}

	return claims, nil
}
