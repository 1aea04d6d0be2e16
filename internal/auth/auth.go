package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/frahmantamala/employee-api/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL is how long a login token stays valid. There is no refresh.
const AccessTokenTTL = time.Hour

// TokenGenerator issues and verifies access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type SignupResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token   string       `json:"token"`
	User    user.Summary `json:"user"`
	Message string       `json:"message"`
}

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
