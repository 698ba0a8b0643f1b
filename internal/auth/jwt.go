package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpirationTime is how long a gateway token is valid (24 hours)
const TokenExpirationTime = 24 * time.Hour

// Issuer is stamped on every gateway token and required when validating.
const Issuer = "kasgo-gateway"

var (
	ErrMissingSecret  = errors.New("jwt secret is empty")
	ErrMissingSubject = errors.New("token subject is empty")
	ErrInvalidToken   = errors.New("invalid token")
)

// Claims represents gateway JWT claims
type Claims struct {
	// Scopes limits what the bearer may call; empty means every route.
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope.
func (c *Claims) HasScope(scope string) bool {
	if len(c.Scopes) == 0 {
		return true
	}
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// GenerateJWT issues a gateway token for subject, valid for ttl
// (TokenExpirationTime when ttl is zero).
func GenerateJWT(subject string, scopes []string, secret string, ttl time.Duration) (string, int, error) {
	if secret == "" {
		return "", 0, ErrMissingSecret
	}
	if strings.TrimSpace(subject) == "" {
		return "", 0, ErrMissingSubject
	}
	if ttl <= 0 {
		ttl = TokenExpirationTime
	}

	now := time.Now()
	claims := &Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(ttl.Seconds()), nil
}

// ValidateJWT validates a gateway token and returns its claims
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
