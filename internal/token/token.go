package token

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

const issuer = "mibuscalibros-api"

var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 session tokens carrying the
// identity the engine receives as its actor.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token manager requires a secret")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for the identity, valid from now for the
// configured TTL.
func (m *Manager) Issue(identity domain.Identity, now time.Time) (string, error) {
	c := claims{
		Role: string(identity.Role),
		Name: identity.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Verify parses and validates a token and returns the identity it carries.
func (m *Manager) Verify(tokenString string) (domain.Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return domain.Identity{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{
		ID:          c.Subject,
		Role:        domain.Role(c.Role),
		DisplayName: c.Name,
	}, nil
}
