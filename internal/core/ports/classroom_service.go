package ports

import (
	"context"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

// ClassroomService composes the tutor gateway, the history store, and the
// shared class board behind the operations the HTTP surface exposes.
type ClassroomService interface {
	// Ask dispatches the question to the tutor and records the exchange in
	// the student's history. The stored question is the verbatim submission.
	Ask(ctx context.Context, student, question string) (domain.ChatEntry, error)

	History(ctx context.Context, student string) ([]domain.ChatEntry, error)

	// Activity aggregates every student's history, sorted by student name.
	Activity(ctx context.Context) ([]domain.StudentActivity, error)

	Broadcast(teacher, message string)
	Announcement() string

	// StartNewClass archives the live history, clears the announcement, and
	// rotates the class session so every outstanding login is invalidated.
	// Returns the archival name.
	StartNewClass(ctx context.Context) (string, error)

	// ExportTranscript renders one student's history as a text document.
	ExportTranscript(ctx context.Context, student string) (string, error)

	// ExportActivity renders the all-students text document and snapshots
	// the aggregate CSV artifact alongside the live store.
	ExportActivity(ctx context.Context) (string, error)

	// ExportWorkbook builds the all-students xlsx workbook and saves a copy
	// as the teacher-facing summary artifact.
	ExportWorkbook(ctx context.Context) ([]byte, error)
}
