package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prezadito/data-detective-sub001/internal/models"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrInvalidClaims  = errors.New("invalid token claims")
)

// Claims carried by the backend's access token. The subject is the user's
// email.
type Claims struct {
	jwt.RegisteredClaims
	UserID int             `json:"user_id"`
	Role   models.UserRole `json:"role"`
	Name   string          `json:"name,omitempty"`
}

func (c *Claims) User() *models.User {
	return &models.User{
		ID:    c.UserID,
		Email: c.Subject,
		Name:  c.Name,
		Role:  c.Role,
	}
}

// DecodeToken reads the claims of an access token without verifying its
// signature. The result is only fit for UI gating.
func DecodeToken(token string) (*Claims, error) {
	return decodeTokenAt(token, time.Now())
}

func decodeTokenAt(token string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
