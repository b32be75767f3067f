package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by access tokens. The user id is the subject.
type Claims struct {
	UserID string   `json:"-"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating access tokens.
// Tokens are issued by the account service; this service only validates them.
type TokenService interface {
	// GenerateAccessToken signs an access token for a user.
	GenerateAccessToken(userID string, roles []string) (string, error)

	// ValidateToken checks the validity of a token string.
	ValidateToken(tokenString string) (*Claims, error)
}
