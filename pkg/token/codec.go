// Package token issues and verifies the bearer tokens used for authentication.
// Tokens are HS256 JWTs whose subject is the user's email.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL  = 7 * 24 * time.Hour
	MinKeyBytes = 32
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrShortKey     = fmt.Errorf("signing key must be at least %d bytes", MinKeyBytes)
)

type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewCodec(key []byte, opts ...Option) (*Codec, error) {
	if len(key) < MinKeyBytes {
		return nil, ErrShortKey
	}
	c := &Codec{
		key: append([]byte(nil), key...),
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// ExpiresIn is the token lifetime as reported to clients at login.
func (c *Codec) ExpiresIn() string {
	return ExpiresInLabel(c.ttl)
}

// ExpiresInLabel renders ttl in its largest whole unit, e.g. "7 days".
func ExpiresInLabel(ttl time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case ttl >= day && ttl%day == 0:
		return plural(int64(ttl/day), "day")
	case ttl >= time.Hour && ttl%time.Hour == 0:
		return plural(int64(ttl/time.Hour), "hour")
	case ttl >= time.Minute && ttl%time.Minute == 0:
		return plural(int64(ttl/time.Minute), "minute")
	default:
		return ttl.String()
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Issue signs a token for subject valid from issuedAt until issuedAt plus the TTL.
func (c *Codec) Issue(subject string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ExtractSubject verifies the signature and returns the subject. Expiry is not
// checked here.
func (c *Codec) ExtractSubject(raw string) (string, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// IsExpired reports whether the token's expiry has passed. Tokens that cannot be
// verified, or carry no expiry, count as expired.
func (c *Codec) IsExpired(raw string) bool {
	claims, err := c.parse(raw)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return !c.now().Before(claims.ExpiresAt.Time)
}

// IsValid reports whether the token verifies, names email as its subject and is
// not expired.
func (c *Codec) IsValid(raw, email string) bool {
	subject, err := c.ExtractSubject(raw)
	if err != nil {
		return false
	}
	return subject == email && !c.IsExpired(raw)
}

func (c *Codec) parse(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
