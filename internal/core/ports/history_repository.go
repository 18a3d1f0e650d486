package ports

import (
	"context"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

// HistoryRepository is the per-student append-only record of exchanges.
type HistoryRepository interface {
	// Append adds exactly one entry to the student's history. Every call
	// appends; only storage I/O errors surface.
	Append(ctx context.Context, student string, entry domain.ChatEntry) error

	// Load returns the student's entries in append order. A student with no
	// history yet yields an empty slice, not an error.
	Load(ctx context.Context, student string) ([]domain.ChatEntry, error)

	// LoadAll returns every student who has ever appended at least one
	// entry, including students no longer able to log in.
	LoadAll(ctx context.Context) (map[string][]domain.ChatEntry, error)

	// ArchiveAndReset moves the live store and any teacher-facing summary
	// artifacts aside under a timestamped archival name, then leaves the
	// live store empty. If archival fails the live store is untouched.
	// Returns the archival name.
	ArchiveAndReset(ctx context.Context) (string, error)

	// SaveClassArtifact persists a teacher-facing summary artifact (for
	// example all_chats.csv) alongside the live store so ArchiveAndReset
	// carries it into the archive.
	SaveClassArtifact(ctx context.Context, name string, data []byte) error
}
