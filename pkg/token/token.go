// Package token issues and validates the opaque bearer credentials used by
// every protected route. A credential is self-contained: subject, role and
// expiry travel inside it, so validation needs nothing but the shared secret
// and the clock. The flip side is that a credential cannot be revoked before
// its expiry passes.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SameepSkillup/clinic-api/internal/model"
)

var (
	// ErrExpired means the signature checked out but the lifetime has passed.
	ErrExpired = errors.New("token expired")
	// ErrMalformed covers everything that never was a valid credential:
	// garbage input, wrong signature, unexpected signing method.
	ErrMalformed = errors.New("token malformed")
	// ErrRoleMismatch means a well-formed, live credential carries a role
	// other than the one the route requires.
	ErrRoleMismatch = errors.New("token role mismatch")
)

// Claims is the payload embedded in every issued credential.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies credentials. It holds no mutable state and is
// safe for concurrent use.
type Service struct {
	secret   []byte
	lifetime time.Duration
}

func NewService(secret string, lifetime time.Duration) *Service {
	return &Service{secret: []byte(secret), lifetime: lifetime}
}

// Issue returns a signed credential for the subject with the given role,
// valid from now until now plus the configured lifetime.
func (s *Service) Issue(subject string, role model.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the credential's signature and expiry, then compares its
// embedded role against required. On success it returns the subject the
// credential was issued to. Failures are exactly one of ErrExpired,
// ErrMalformed or ErrRoleMismatch.
func (s *Service) Validate(credential string, required model.Role) (string, error) {
	parsed, err := jwt.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrMalformed
	}
	if claims.Role != required {
		return "", ErrRoleMismatch
	}
	return claims.Subject, nil
}
