package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenTTL is fixed at issue time and is not a call-site knob.
const AccessTokenTTL = 2 * time.Hour

var (
	ErrNoSecret     = errors.New("tokens: signing secret is not configured")
	ErrInvalidToken = errors.New("tokens: invalid token")
)

// Config carries the signing material for the issuer and validator. It is
// passed explicitly to New so no process-wide secret state exists.
type Config struct {
	Secret []byte
}

// Claims is the payload embedded in every issued token.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 access tokens.
type Service struct {
	cfg Config
}

func New(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Issue signs a token for the given login carrying the resolved role names.
// Expiry is always issue time + AccessTokenTTL.
func (s *Service) Issue(login string, roles []string) (string, error) {
	if len(s.cfg.Secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now().UTC()
	claims := Claims{
		Username: login,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   login,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.Secret)
}

// Claims verifies the signature and expiry and returns the embedded payload.
func (s *Service) Claims(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.cfg.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Validate reports whether the token is cryptographically valid and not
// expired. Every failure mode answers false; callers get no cause.
func (s *Service) Validate(tokenStr string) bool {
	_, err := s.Claims(tokenStr)
	return err == nil
}

// DecodeUsername extracts the username claim without verifying the
// signature. The result is only good for record lookups; it asserts
// nothing about token validity.
func DecodeUsername(tokenStr string) (string, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return "", ErrInvalidToken
	}
	if claims.Username != "" {
		return claims.Username, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", ErrInvalidToken
}

// DecodeExpiry extracts the expiry instant without verifying the signature.
func DecodeExpiry(tokenStr string) (time.Time, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}
