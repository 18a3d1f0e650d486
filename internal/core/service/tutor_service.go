package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartclassroom/classroom-api/internal/api/metrics"
	"github.com/smartclassroom/classroom-api/internal/core/ports"
)

const (
	// clarificationPrompt replaces an empty or whitespace-only question
	// before dispatch; the gateway never rejects a prompt outright.
	clarificationPrompt = "Please clarify your question."

	// emptyReplyFallback is returned when the upstream answered but carried
	// no usable text.
	emptyReplyFallback = "I'm having trouble fetching that right now, but generally speaking..."

	systemPrompt = "You are a friendly, human-like AI tutor assisting students during live online classes. " +
		"Answer accurately, clearly, and conversationally. " +
		"If a question is short or unclear, restate it before answering. " +
		"You can explain any topic, from science and history to general knowledge."
)

// TutorService is the gateway around the external text generator: it
// normalizes prompts, composes the tutor instruction, and converts every
// failure into a displayable string. Ask never fails past this boundary.
type TutorService struct {
	generator ports.TextGenerator
	log       zerolog.Logger
}

func NewTutorService(generator ports.TextGenerator, log zerolog.Logger) *TutorService {
	return &TutorService{generator: generator, log: log}
}

func (s *TutorService) Ask(ctx context.Context, question string) string {
	prompt := strings.TrimSpace(question)
	if prompt == "" {
		prompt = clarificationPrompt
	}
	composed := fmt.Sprintf("%s\n\nStudent asked: %s\n\nAnswer:", systemPrompt, prompt)

	start := time.Now()
	text, err := s.generator.Generate(ctx, composed)
	elapsed := time.Since(start).Seconds()

	switch {
	case errors.Is(err, ports.ErrMalformedReply):
		s.log.Warn().Err(err).Msg("tutor reply malformed, serving fallback")
		metrics.TutorFallbacksTotal.WithLabelValues("malformed_reply").Inc()
		metrics.TutorRequestDuration.WithLabelValues("fallback").Observe(elapsed)
		return emptyReplyFallback

	case err != nil:
		s.log.Warn().Err(err).Msg("tutor upstream failed, serving fallback")
		metrics.TutorFallbacksTotal.WithLabelValues("upstream_error").Inc()
		metrics.TutorRequestDuration.WithLabelValues("fallback").Observe(elapsed)
		return fmt.Sprintf("Temporary issue: %v. Please try again.", err)
	}

	reply := strings.TrimSpace(text)
	if reply == "" {
		s.log.Warn().Msg("tutor returned empty text, serving fallback")
		metrics.TutorFallbacksTotal.WithLabelValues("empty_reply").Inc()
		metrics.TutorRequestDuration.WithLabelValues("fallback").Observe(elapsed)
		return emptyReplyFallback
	}

	metrics.TutorRequestDuration.WithLabelValues("answered").Observe(elapsed)
	return reply
}
