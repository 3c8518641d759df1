package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer    = "auraz-storefront"
	roleAdmin = "admin"
	roleUser  = "user"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type tokenMeta struct {
	UserID    string
	Admin     bool
	ExpiresAt time.Time
}

// tokenManager issues and validates HS256 session tokens.
type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenManager(secret []byte, ttl time.Duration, now func() time.Time) *tokenManager {
	return &tokenManager{secret: secret, ttl: ttl, now: now}
}

func (m *tokenManager) Issue(userID string, admin bool) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	role := roleUser
	if admin {
		role = roleAdmin
	}
	now := m.now()
	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *tokenManager) Validate(token string) (tokenMeta, bool) {
	var c claims
	tok, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		if len(m.secret) == 0 {
			return nil, errors.New("jwt secret not configured")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid || c.Subject == "" {
		return tokenMeta{}, false
	}
	return tokenMeta{
		UserID:    c.Subject,
		Admin:     c.Role == roleAdmin,
		ExpiresAt: c.ExpiresAt.Time,
	}, true
}
