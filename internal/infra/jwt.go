// README: JWT token verification; the auth service issues the tokens, we only verify.
package infra

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AuthToken holds the verified claims used by downstream middleware.
// The auth collaborator signs {sub, role, admin}; the order subsystem
// trusts the role claim for every role-scoped operation.
type AuthToken struct {
	Subject string
	Role    string
	IsAdmin bool
}

// TokenVerifier verifies a raw bearer token string and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (*AuthToken, error)
}

var ErrInvalidToken = errors.New("invalid token")

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a TokenVerifier for HMAC-signed tokens sharing
// the auth service's secret.
func NewJWTVerifier(secret string) TokenVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

type authClaims struct {
	Role    string `json:"role"`
	IsAdmin bool   `json:"admin"`
	jwt.RegisteredClaims
}

func (v *jwtVerifier) Verify(raw string) (*AuthToken, error) {
	var claims authClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return &AuthToken{
		Subject: claims.Subject,
		Role:    claims.Role,
		IsAdmin: claims.IsAdmin,
	}, nil
}

// SignToken mints a token with the given claims. Used by tests and local
// tooling; production tokens come from the auth service.
func SignToken(secret, subject, role string, isAdmin bool) (string, error) {
	claims := authClaims{
		Role:    role,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
