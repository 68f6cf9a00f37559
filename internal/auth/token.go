// Package auth issues and verifies the bearer tokens that identify a user on
// every customer endpoint. Tokens are stateless HS256 JWTs; the server keeps no
// session table, so a token stays valid until it expires.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"customer-keeper/internal/clock"
)

var (
	// ErrTokenMissing indicates that no bearer token was presented.
	ErrTokenMissing = errors.New("token missing")
	// ErrInvalidToken covers malformed, tampered and expired tokens alike.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret is returned by New when no signing secret is configured.
	ErrEmptySecret = errors.New("jwt secret is required")
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = time.Hour

// Claims carries the user id alongside the registered JWT claims.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Config configures an Authority.
type Config struct {
	Secret string
	TTL    time.Duration
}

// Token is a signed token together with its validity window.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Authority signs and verifies tokens with a secret fixed at construction.
type Authority struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	parser *jwt.Parser
}

// New builds an Authority. A nil clock means the system clock.
func New(cfg Config, clk clock.Clock) (*Authority, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrEmptySecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Authority{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		clock:  clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clk.Now),
		),
	}, nil
}

// TTL returns the lifetime of tokens issued by a.
func (a *Authority) TTL() time.Duration {
	return a.ttl
}

// IssueToken signs a token asserting userID, valid for the configured TTL.
func (a *Authority) IssueToken(userID string) (Token, error) {
	if userID == "" {
		return Token{}, errors.New("user id is required")
	}

	now := a.clock.Now()
	issuedAt := jwt.NewNumericDate(now)
	expiresAt := jwt.NewNumericDate(now.Add(a.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{
		Value:     signed,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// VerifyToken checks the signature and expiry of raw and returns the user id it asserts.
func (a *Authority) VerifyToken(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrTokenMissing
	}

	claims := &Claims{}
	token, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return userID, nil
}

// BearerToken extracts the token from an Authorization header value.
// A bare token without the "Bearer " scheme is accepted as is.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	return header
}
