package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/workforce-admin/internal/access"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenGenerator creates and validates signed session tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, role access.Role) (string, error)
	GenerateRefreshToken(userID int64, role access.Role) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Session converts the claims into the identity the rules run against. An
// unknown role yields an invalid session.
func (c *Claims) Session() access.Session {
	role, err := access.ParseRole(c.Role)
	if err != nil {
		return access.Session{}
	}
	return access.Session{ActorID: c.UserID, Role: role}
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
