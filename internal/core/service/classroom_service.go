package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartclassroom/classroom-api/internal/api/metrics"
	"github.com/smartclassroom/classroom-api/internal/core/domain"
	"github.com/smartclassroom/classroom-api/internal/core/ports"
	"github.com/smartclassroom/classroom-api/internal/core/state"
	"github.com/smartclassroom/classroom-api/internal/export"
)

const (
	aggregateArtifact = "all_chats.csv"
	workbookArtifact  = "teacher_class_summary.xlsx"
)

// ClassroomService composes the tutor gateway, the history store, and the
// shared class board. One instance serves every connection.
type ClassroomService struct {
	history ports.HistoryRepository
	tutor   ports.TutorGateway
	board   *state.ClassBoard
	log     zerolog.Logger
}

func NewClassroomService(history ports.HistoryRepository, tutor ports.TutorGateway, board *state.ClassBoard, log zerolog.Logger) *ClassroomService {
	return &ClassroomService{history: history, tutor: tutor, board: board, log: log}
}

// Ask dispatches the question and records the exchange. The question is
// persisted verbatim as submitted; normalization of
// empty prompts happens inside the gateway for the dispatched prompt only.
func (s *ClassroomService) Ask(ctx context.Context, student, question string) (domain.ChatEntry, error) {
	answer := s.tutor.Ask(ctx, question)

	entry := domain.ChatEntry{
		Time:     time.Now().UTC(),
		Question: question,
		Answer:   answer,
	}
	if err := s.history.Append(ctx, student, entry); err != nil {
		s.log.Error().Err(err).Str("student", student).Msg("failed to record exchange")
		return domain.ChatEntry{}, err
	}

	metrics.QuestionsAskedTotal.Inc()
	s.log.Info().Str("student", student).Msg("question recorded")
	return entry, nil
}

func (s *ClassroomService) History(ctx context.Context, student string) ([]domain.ChatEntry, error) {
	return s.history.Load(ctx, student)
}

// Activity aggregates every student's history, sorted by student name so the
// teacher view and exports are deterministic.
func (s *ClassroomService) Activity(ctx context.Context) ([]domain.StudentActivity, error) {
	all, err := s.history.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	activity := make([]domain.StudentActivity, 0, len(all))
	for student, entries := range all {
		activity = append(activity, domain.StudentActivity{Student: student, Entries: entries})
	}
	sort.Slice(activity, func(i, j int) bool {
		return activity[i].Student < activity[j].Student
	})
	return activity, nil
}

// Broadcast overwrites the shared announcement. Last writer wins; every
// student sees the new announcement on their next view.
func (s *ClassroomService) Broadcast(teacher, message string) {
	s.board.Announce(message)
	metrics.BroadcastsTotal.Inc()
	s.log.Info().Str("teacher", teacher).Msg("announcement broadcast")
}

func (s *ClassroomService) Announcement() string {
	return s.board.Announcement()
}

// StartNewClass archives the live store, then rotates the class session so
// every outstanding token stops validating. If archival fails the live store
// and the session are left untouched.
func (s *ClassroomService) StartNewClass(ctx context.Context) (string, error) {
	archive, err := s.history.ArchiveAndReset(ctx)
	if err != nil {
		metrics.ClassResetsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("class archive failed")
		return "", err
	}

	session := s.board.Reset()
	metrics.ClassResetsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("archive", archive).Str("class_session", session).Msg("new class started")
	return archive, nil
}

func (s *ClassroomService) ExportTranscript(ctx context.Context, student string) (string, error) {
	entries, err := s.history.Load(ctx, student)
	if err != nil {
		return "", err
	}
	metrics.ExportsTotal.WithLabelValues("transcript").Inc()
	return export.RenderTranscript(student, entries), nil
}

// ExportActivity renders the all-students document and snapshots the
// aggregate CSV next to the live store, where the next class reset archives
// it.
func (s *ClassroomService) ExportActivity(ctx context.Context) (string, error) {
	activity, err := s.Activity(ctx)
	if err != nil {
		return "", err
	}

	snapshot, err := export.AggregateCSV(activity)
	if err != nil {
		return "", err
	}
	if err := s.history.SaveClassArtifact(ctx, aggregateArtifact, snapshot); err != nil {
		return "", err
	}

	metrics.ExportsTotal.WithLabelValues("class_transcript").Inc()
	return export.RenderClassTranscript(activity), nil
}

func (s *ClassroomService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	activity, err := s.Activity(ctx)
	if err != nil {
		return nil, err
	}

	book, err := export.BuildWorkbook(activity)
	if err != nil {
		return nil, err
	}
	if err := s.history.SaveClassArtifact(ctx, workbookArtifact, book); err != nil {
		return nil, err
	}

	metrics.ExportsTotal.WithLabelValues("workbook").Inc()
	return book, nil
}
