package userservice

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrNoSecret     = errors.New("no signing secret configured")
)

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens. A codec without a secret is a
// server configuration error and must be refused at startup, not per request.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	return &TokenCodec{secret: []byte(secret), ttl: SessionTokenTime}, nil
}

// IssueToken produces a signed token embedding the identity.
func (c *TokenCodec) IssueToken(identity Identity) (string, error) {
	now := time.Now()

	claims := sessionClaims{
		Email: identity.Email,
		Name:  identity.Name,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyToken checks the signature and expiry of a token and returns the
// embedded identity. An expired token reports ErrTokenExpired even when its
// signature no longer verifies.
func (c *TokenCodec) VerifyToken(token string) (*Identity, error) {
	var claims sessionClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			if identity, decodeErr := DecodeUnsafe(token); decodeErr == nil && identity != nil {
				if exp, expErr := expiryOf(token); expErr == nil && time.Now().After(exp) {
					return nil, ErrTokenExpired
				}
			}
			return nil, ErrTokenInvalid
		}
	}

	return &Identity{Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}

// DecodeUnsafe decodes the token payload without checking the signature. It
// exists for optimistic client-side rendering and must never back an
// authorization decision.
func DecodeUnsafe(token string) (*Identity, error) {
	var claims sessionClaims

	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &Identity{Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}

func expiryOf(token string) (time.Time, error) {
	var claims sessionClaims

	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrTokenInvalid
	}

	return claims.ExpiresAt.Time, nil
}
