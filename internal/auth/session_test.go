package auth

import (
	"testing"
	"time"
)

func TestCreateAndValidate(t *testing.T) {
	sessions := NewSessions(time.Hour)

	token, err := sessions.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if !sessions.Valid(token) {
		t.Error("fresh token should be valid")
	}
	if sessions.Valid("") {
		t.Error("empty token should be invalid")
	}
	if sessions.Valid("deadbeef") {
		t.Error("unknown token should be invalid")
	}
}

func TestTokensAreUnique(t *testing.T) {
	sessions := NewSessions(time.Hour)

	a, _ := sessions.Create()
	b, _ := sessions.Create()
	if a == b {
		t.Error("two sessions got the same token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	sessions := NewSessions(time.Hour)
	token, _ := sessions.Create()

	// Move the clock past the expiry.
	sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if sessions.Valid(token) {
		t.Error("expired token should be invalid")
	}
	if sessions.Count() != 0 {
		t.Errorf("expired token not removed, count = %d", sessions.Count())
	}
}

func TestRevoke(t *testing.T) {
	sessions := NewSessions(time.Hour)
	token, _ := sessions.Create()

	sessions.Revoke(token)
	if sessions.Valid(token) {
		t.Error("revoked token should be invalid")
	}
	// Revoking again must not panic.
	sessions.Revoke(token)
}

func TestCreateSweepsExpired(t *testing.T) {
	sessions := NewSessions(time.Hour)
	if _, err := sessions.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}

	sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := sessions.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if sessions.Count() != 1 {
		t.Errorf("expected expired session swept on create, count = %d", sessions.Count())
	}
}

func TestVerifySequence(t *testing.T) {
	want := []string{"Home", "Heart", "Star", "Sun"}

	if !VerifySequence([]string{"Home", "Heart", "Star", "Sun"}, want) {
		t.Error("exact match rejected")
	}
	if VerifySequence([]string{"Heart", "Home", "Star", "Sun"}, want) {
		t.Error("wrong order accepted")
	}
	if VerifySequence([]string{"Home", "Heart", "Star"}, want) {
		t.Error("short attempt accepted")
	}
	if VerifySequence([]string{"home", "heart", "star", "sun"}, want) {
		t.Error("case-insensitive match accepted")
	}
}
