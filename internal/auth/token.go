package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers every verification failure: malformed, expired, bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret is returned when a signer is built without a key.
	ErrMissingSecret = errors.New("token signing secret is required")
)

// Claims is the verified content of a bearer token.
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenSigner issues and verifies time-limited bearer tokens.
type TokenSigner interface {
	Sign(userID string) (string, error)
	Verify(token string) (*Claims, error)
}

// jwtClaims is the wire form of Claims.
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// JWTSigner signs HS256 JWTs carrying a userId claim.
type JWTSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTSigner creates a signer. The secret must be non-empty; now may be nil.
func NewJWTSigner(secret string, ttl time.Duration, now func() time.Time) (*JWTSigner, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if now == nil {
		now = time.Now
	}
	return &JWTSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}, nil
}

func (s *JWTSigner) Sign(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("cannot sign token without user id")
	}
	issuedAt := s.now().UTC()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
		UserID: userID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTSigner) Verify(token string) (*Claims, error) {
	var parsed jwtClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(parsed.UserID) == "" {
		return nil, fmt.Errorf("%w: missing userId claim", ErrInvalidToken)
	}

	claims := &Claims{
		UserID:    parsed.UserID,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}
