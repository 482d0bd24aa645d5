package jwtx

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("jwtx: invalid session token")
	ErrEmptySecret  = errors.New("jwtx: signing secret is empty")
)

// SessionClaims are the claims embedded in a session token. The role is
// carried for routing convenience only; authorization decisions re-resolve
// the profile from the store on every request.
type SessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Signer mints and verifies HS256 session tokens.
type Signer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Sign mints a session token for the given subject.
func (s *Signer) Sign(userID, email, role string, now time.Time) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrEmptySecret
	}

	claims := SessionClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Verify parses and validates a session token, checking signature, issuer
// and expiry.
func (s *Signer) Verify(raw string) (SessionClaims, error) {
	if len(s.Secret) == 0 {
		return SessionClaims{}, ErrEmptySecret
	}

	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected signing method")
			}
			return s.Secret, nil
		},
		jwt.WithIssuer(s.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	return claims, nil
}
