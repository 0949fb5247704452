package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal kinds carried in token claims. Embedding the kind at issue time
// lets the middleware resolve the bearer with a single store lookup instead of
// probing both identity spaces.
const (
	KindUser     = "user"
	KindCustomer = "customer"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the JWT payload: subject is the account email.
type Claims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// Signer issues and verifies bearer tokens.
type Signer struct {
	secret  []byte
	expiry  time.Duration
	nowFunc func() time.Time
}

func NewSigner(secret string, expiry time.Duration) *Signer {
	return &Signer{
		secret:  []byte(secret),
		expiry:  expiry,
		nowFunc: time.Now,
	}
}

// Issue signs a token for the given principal.
func (s *Signer) Issue(email, role, kind string) (string, error) {
	now := s.nowFunc()
	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token.
func (s *Signer) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.nowFunc))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if claims.Kind != KindUser && claims.Kind != KindCustomer {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
