package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSigningKeyLength = 32

type accessClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// signer issues and verifies HS256 access tokens.
type signer struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

func newSigner(key, issuer string, ttl time.Duration) (*signer, error) {
	if len(key) < minSigningKeyLength {
		return nil, ErrMissingSigningKey
	}
	return &signer{key: []byte(key), issuer: issuer, ttl: ttl}, nil
}

func (s *signer) issue(userID uuid.UUID, sessionID string, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl)
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		SessionID: sessionID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return token, exp, nil
}

// parse validates token and returns the user it was issued to.
// Expired tokens report jwt.ErrTokenExpired so callers can fall back to refresh.
func (s *signer) parse(token string, now time.Time) (uuid.UUID, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var claims accessClaims
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}); err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, errors.Join(jwt.ErrTokenInvalidClaims, err)
	}
	return userID, nil
}
