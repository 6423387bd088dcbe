package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rcb-marathon/pkg/common/clock"
	"rcb-marathon/pkg/common/config"
)

func testConfig() config.JWTAuthConfig {
	return config.JWTAuthConfig{
		Secret:         "test-secret",
		ExpireDuration: time.Hour,
		Issuer:         "rcb-marathon",
		SigningMethod:  "HS256",
	}
}

func TestIssueSignsClaimsWithExpiry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	mgr, err := NewManager(testConfig(), clock.NewFixed(now))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	sess, err := mgr.Issue(Subject{UserID: 7, Email: "runner@example.com", Role: "runner"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !sess.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(time.Hour), sess.ExpiresAt)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(sess.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithIssuer("rcb-marathon"), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims[ClaimEmail] != "runner@example.com" {
		t.Fatalf("unexpected email claim %v", claims[ClaimEmail])
	}
	if claims[ClaimUserID].(float64) != 7 {
		t.Fatalf("unexpected user id claim %v", claims[ClaimUserID])
	}
	if claims["jti"] != sess.ID {
		t.Fatalf("expected jti %q, got %v", sess.ID, claims["jti"])
	}
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Secret = ""
	if _, err := NewManager(cfg, clock.NewSystem()); err == nil {
		t.Fatalf("expected error for empty secret")
	}

	cfg = testConfig()
	cfg.SigningMethod = "none-such"
	if _, err := NewManager(cfg, clock.NewSystem()); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}

func TestRevokeUntilExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	mgr, err := NewManager(testConfig(), clock.NewFixed(now))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	mgr.Revoke("expired", now.Add(-time.Minute))
	mgr.Revoke("live", now.Add(time.Hour))
	if !mgr.IsRevoked("live") {
		t.Fatalf("expected live session to be revoked")
	}

	// a later revoke purges entries that already expired
	mgr.Revoke("other", now.Add(time.Hour))
	if mgr.IsRevoked("expired") {
		t.Fatalf("expected expired entry to be purged")
	}
	if mgr.IsRevoked("unknown") {
		t.Fatalf("unexpected revoked session")
	}
}
