package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/graalonline/support-service/internal/model"
)

// Sessions are valid for a week from login.
const sessionTTL = 7 * 24 * time.Hour

// Identity is the authenticated principal carried by a verified token.
type Identity struct {
	Email string
	Role  model.Role
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Service issues and verifies signed session tokens. It holds no state beyond
// the shared secret.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue signs a session token for email with the given role. Fails closed
// when the signing secret is not configured.
func (s *Service) Issue(email string, role model.Role) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token: signing secret is not configured")
	}
	now := s.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		Email: email,
		Role:  string(role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify validates signature and expiry. Any failure, malformed input
// included, yields ok=false; no error detail crosses this boundary.
func (s *Service) Verify(tok string) (Identity, bool) {
	if len(s.secret) == 0 {
		return Identity{}, false
	}
	parsed, err := jwt.ParseWithClaims(tok, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return Identity{}, false
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || c.Email == "" {
		return Identity{}, false
	}
	return Identity{Email: c.Email, Role: model.Role(c.Role)}, true
}
