package state

import (
	"fmt"
	"sync"
	"testing"
)

func TestClassBoard_AnnounceLastWriterWins(t *testing.T) {
	b := NewClassBoard()

	if got := b.Announcement(); got != "" {
		t.Fatalf("expected no announcement on a fresh board, got %q", got)
	}

	b.Announce("quiz on friday")
	b.Announce("quiz moved to monday")
	if got := b.Announcement(); got != "quiz moved to monday" {
		t.Fatalf("expected the latest announcement, got %q", got)
	}

	b.Announce("")
	if got := b.Announcement(); got != "" {
		t.Fatalf("expected empty message to clear the board, got %q", got)
	}
}

func TestClassBoard_ResetRotatesSession(t *testing.T) {
	b := NewClassBoard()
	b.Announce("welcome")

	before := b.SessionID()
	startedBefore := b.StartedAt()

	after := b.Reset()
	if after == before {
		t.Fatalf("session ID did not rotate")
	}
	if b.SessionID() != after {
		t.Fatalf("SessionID %q does not match Reset result %q", b.SessionID(), after)
	}
	if b.Announcement() != "" {
		t.Fatalf("announcement survived reset: %q", b.Announcement())
	}
	if b.StartedAt().Before(startedBefore) {
		t.Fatalf("startedAt went backwards")
	}
}

func TestClassBoard_ConcurrentAccess(t *testing.T) {
	b := NewClassBoard()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Announce(fmt.Sprintf("msg %d-%d", i, j))
				_ = b.Announcement()
				_ = b.SessionID()
			}
		}(i)
	}
	wg.Wait()

	if b.Announcement() == "" {
		t.Fatalf("expected some announcement to be set")
	}
}
