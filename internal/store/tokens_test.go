package store

import (
	"context"
	"testing"
	"time"

	"github.com/numera-market/numera/internal/db"
)

func TestRevokeAndCheckToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-a")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected token not to be revoked")
	}

	if err := RevokeToken(ctx, database, "jti-a", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	// Revoking twice is a no-op.
	if err := RevokeToken(ctx, database, "jti-a", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("second RevokeToken: %v", err)
	}

	revoked, _ = IsTokenRevoked(ctx, database, "jti-a")
	if !revoked {
		t.Error("expected token to be revoked")
	}
	revoked, _ = IsTokenRevoked(ctx, database, "jti-b")
	if revoked {
		t.Error("expected different token not to be revoked")
	}
}

func TestPurgeExpiredRevocations(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	RevokeToken(ctx, database, "long-lived", time.Now().Add(24*time.Hour))
	RevokeToken(ctx, database, "short-lived", time.Now().Add(time.Minute))

	n, err := PurgeExpiredRevocations(ctx, database, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PurgeExpiredRevocations: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged revocation, got %d", n)
	}
	if revoked, _ := IsTokenRevoked(ctx, database, "long-lived"); !revoked {
		t.Error("expected long-lived revocation to survive")
	}
}
