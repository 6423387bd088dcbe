// Package session issues signed runner sessions and tracks revoked ones.
//
// Tokens are HS256/384/512 JWTs carrying user_id, email and role claims with
// an explicit expiry. Verification of the signature and expiry happens in the
// HTTP middleware; the Manager keeps the server-side revocation list consulted
// on every authenticated request.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rcb-marathon/pkg/common/clock"
	"rcb-marathon/pkg/common/config"
)

const (
	ClaimUserID = "user_id"
	ClaimEmail  = "email"
	ClaimRole   = "role"
)

// Subject is the identity a session is issued for.
type Subject struct {
	UserID int64
	Email  string
	Role   string
}

// Session is an issued token and its expiry.
type Session struct {
	ID        string    `json:"-"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	method jwt.SigningMethod
	clock  clock.Clock

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewManager(cfg config.JWTAuthConfig, clk clock.Clock) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session: empty signing secret")
	}
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	if method == nil {
		return nil, fmt.Errorf("session: unsupported signing method %q", cfg.SigningMethod)
	}
	ttl := cfg.ExpireDuration
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret:  []byte(cfg.Secret),
		issuer:  cfg.Issuer,
		ttl:     ttl,
		method:  method,
		clock:   clk,
		revoked: make(map[string]time.Time),
	}, nil
}

// Issue signs a new session for the subject.
func (m *Manager) Issue(sub Subject) (Session, error) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)
	id := uuid.NewString()

	token := jwt.NewWithClaims(m.method, jwt.MapClaims{
		ClaimUserID: sub.UserID,
		ClaimEmail:  sub.Email,
		ClaimRole:   sub.Role,
		"sub":       fmt.Sprintf("%d", sub.UserID),
		"jti":       id,
		"iss":       m.issuer,
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{ID: id, Token: signed, ExpiresAt: expiresAt}, nil
}

// Revoke marks a session id as logged out until its natural expiry.
func (m *Manager) Revoke(id string, expiresAt time.Time) {
	if id == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()
	m.revoked[id] = expiresAt
}

// IsRevoked reports whether the session id was logged out.
func (m *Manager) IsRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}

func (m *Manager) purgeLocked() {
	now := m.clock.Now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
}
