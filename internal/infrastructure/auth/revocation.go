package auth

import (
	"sync"
	"time"
)

// RevocationList remembers the IDs of tokens logged out before they expire.
// It lives in process memory; a restart forgets it.
type RevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
	now     func() time.Time
}

// NewRevocationList creates an empty revocation list
func NewRevocationList() *RevocationList {
	return &RevocationList{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke blocks jti until expiresAt
func (l *RevocationList) Revoke(jti string, expiresAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = expiresAt
	l.sweep()
}

// IsRevoked reports whether jti was revoked and has not yet expired
func (l *RevocationList) IsRevoked(jti string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	expiresAt, ok := l.revoked[jti]
	if !ok {
		return false
	}
	if l.now().After(expiresAt) {
		delete(l.revoked, jti)
		return false
	}
	return true
}

// Len returns the number of live entries
func (l *RevocationList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep()
	return len(l.revoked)
}

// sweep drops expired entries. Callers hold mu.
func (l *RevocationList) sweep() {
	now := l.now()
	for jti, expiresAt := range l.revoked {
		if now.After(expiresAt) {
			delete(l.revoked, jti)
		}
	}
}
