// Package auth signs and verifies the bearer tokens handed out by the API and
// hashes user passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("jobly/auth: invalid token")
	ErrNoSecret     = errors.New("jobly/auth: signing secret is empty")
)

// Config holds the token settings. A zero TTL issues tokens that never
// expire.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// Claims identify the caller of a request.
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a single shared secret.
// It is safe for concurrent use.
type Issuer struct {
	cfg    Config
	now    func() time.Time
	parser *jwt.Parser
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNoSecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &Issuer{
		cfg:    cfg,
		now:    time.Now,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Sign returns a signed token for the given user.
func (i *Issuer) Sign(username string, isAdmin bool) (string, error) {
	now := i.now()
	claims := Claims{
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			Issuer:   i.cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.cfg.TTL))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("jobly/auth: sign: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its claims. Any failure, including an
// expired token or a foreign signing method, yields ErrInvalidToken.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := i.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidToken)
	}
	return claims, nil
}
