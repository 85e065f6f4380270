package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session lifetime matches the dashboard's expectations: a day for a
// coach at the field, re-login after that.
const sessionTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired session token")

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewSessionToken signs an HS256 token carrying the account email.
func NewSessionToken(email, secret string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry and returns the
// email the session was issued for.
func ParseSessionToken(token, secret string) (string, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}
