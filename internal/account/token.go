package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken indicates a session token failed verification.
var ErrInvalidToken = errors.New("invalid session token")

// TokenIssuer mints and verifies HMAC-signed session tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// NewTokenIssuer creates a token issuer with the provided signing secret.
func NewTokenIssuer(secret string, now func() time.Time) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), issuer: "vitalog", now: now}, nil
}

// Issue mints a signed session token for the given user.
func (t *TokenIssuer) Issue(userID, username string) (string, error) {
	issuedAt := t.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tokenTTL)),
		},
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns the subject user id.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
			}
			return t.secret, nil
		},
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return t.now().UTC() }),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
