// Package auth implements the session issuer: it converts a verified
// user identity into a signed bearer token and derives the identity
// back from tokens on incoming requests. Tokens are stateless; there
// is no server-side session store, so validity is determined entirely
// by the token's signed content and the clock at verification time.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: malformed input,
// bad signature, expiry, or a missing subject claim. Callers respond
// with a uniform 401 and must not reveal which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessToken is a signed bearer credential together with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenIssuer issues and authenticates bearer credentials. It is an
// interface so the signing scheme can be swapped without touching the
// reservation logic or the middleware.
type TokenIssuer interface {
	// Issue creates a token embedding the user id and an expiry.
	Issue(userID uint64) (AccessToken, error)
	// Authenticate verifies a raw token and returns the user id it
	// carries, or ErrInvalidToken.
	Authenticate(raw string) (uint64, error)
}

// JWTIssuer signs HS256 JWTs with a shared secret. The claims are the
// standard sub/exp/iat set; sub holds the user id.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer builds an issuer from the signing secret and a token
// lifetime in minutes.
func NewJWTIssuer(secret string, ttlMin int) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: time.Duration(ttlMin) * time.Minute}
}

// Issue builds and signs a token for the user.
func (i *JWTIssuer) Issue(userID uint64) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Authenticate parses and verifies a raw token. The signing method is
// pinned to HMAC so a token claiming a different algorithm is rejected
// rather than verified against the wrong key type.
func (i *JWTIssuer) Authenticate(raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	// JSON numbers decode as float64; tolerate string subjects too.
	switch sub := claims["sub"].(type) {
	case float64:
		if sub <= 0 {
			return 0, ErrInvalidToken
		}
		return uint64(sub), nil
	case string:
		if n, err := strconv.ParseUint(sub, 10, 64); err == nil && n > 0 {
			return n, nil
		}
	}
	return 0, ErrInvalidToken
}
