// Package auth implements the icon-sequence access gate. Entering the
// right 4-icon sequence grants a bearer session held in memory; there
// are no user accounts, and restarting the server simply asks the
// household to tap the sequence again.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL keeps a session alive for 30 days, matching how long a
// household tablet stays logged in between restarts of the browser.
const DefaultTTL = 30 * 24 * time.Hour

// Sessions is an in-memory session table keyed by opaque token.
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sessions{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create mints a new session token.
func (s *Sessions) Create() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.tokens[token] = s.now().Add(s.ttl)
	s.sweepLocked()
	s.mu.Unlock()
	return token, nil
}

// Valid reports whether the token names a live session. Expired
// tokens are removed as they are seen.
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke forgets the token. Revoking an unknown token is a no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Count returns the number of stored sessions, expired ones included
// until the next sweep.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *Sessions) sweepLocked() {
	now := s.now()
	for token, expiry := range s.tokens {
		if now.After(expiry) {
			delete(s.tokens, token)
		}
	}
}

// VerifySequence compares an attempted icon sequence against the
// configured one. Order matters; icon names match exactly.
func VerifySequence(attempt, want []string) bool {
	if len(attempt) != len(want) {
		return false
	}
	for i := range want {
		if attempt[i] != want[i] {
			return false
		}
	}
	return true
}
