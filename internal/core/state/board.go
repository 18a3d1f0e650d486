// Package state holds the process-wide mutable classroom state shared by
// every connection: the current announcement and the identity of the class
// session in progress. It replaces the ambient globals of earlier versions
// with one accessor-guarded object; writes take the lock, reads tolerate a
// slightly stale value.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ClassBoard is the single shared board. Announcement semantics are
// last-writer-wins: the latest broadcast replaces the previous one and is
// visible to all readers on their next view.
type ClassBoard struct {
	mu           sync.RWMutex
	announcement string
	sessionID    string
	startedAt    time.Time
}

func NewClassBoard() *ClassBoard {
	return &ClassBoard{
		sessionID: uuid.NewString(),
		startedAt: time.Now().UTC(),
	}
}

// Announce overwrites the current announcement. An empty message clears it.
func (b *ClassBoard) Announce(message string) {
	b.mu.Lock()
	b.announcement = message
	b.mu.Unlock()
}

// Announcement returns the current announcement, or "" when none is set.
func (b *ClassBoard) Announcement() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.announcement
}

// SessionID identifies the class session in progress. Tokens minted during
// one session stop validating once the session rotates.
func (b *ClassBoard) SessionID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sessionID
}

// StartedAt reports when the current class session began.
func (b *ClassBoard) StartedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.startedAt
}

// Reset starts a fresh class session: new session identity, announcement
// cleared. Returns the new session ID.
func (b *ClassBoard) Reset() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessionID = uuid.NewString()
	b.announcement = ""
	b.startedAt = time.Now().UTC()
	return b.sessionID
}
