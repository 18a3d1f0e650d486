package handler

import (
	"time"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64,excludesall=/\\"`
	Password string `json:"password" validate:"required,max=128"`
	Role     string `json:"role"     validate:"required,oneof=student teacher"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// --- Student ---

// askRequest carries the student question. The question is deliberately not
// required: an empty prompt is normalized inside the tutor gateway, never
// rejected.
type askRequest struct {
	Question string `json:"question" validate:"max=4096"`
}

type chatEntryResponse struct {
	Time     time.Time `json:"time"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
}

type askResponse struct {
	Entry chatEntryResponse `json:"entry"`
}

type historyResponse struct {
	Announcement string              `json:"announcement,omitempty"`
	Entries      []chatEntryResponse `json:"entries"`
}

// --- Teacher ---

type broadcastRequest struct {
	Message string `json:"message" validate:"max=4096"`
}

type broadcastResponse struct {
	Message string `json:"message"`
}

type studentActivityResponse struct {
	Student string              `json:"student"`
	Entries []chatEntryResponse `json:"entries"`
}

type activityResponse struct {
	Students []studentActivityResponse `json:"students"`
}

type newClassResponse struct {
	Archive string `json:"archive"`
}

func toEntryResponse(e domain.ChatEntry) chatEntryResponse {
	return chatEntryResponse{Time: e.Time, Question: e.Question, Answer: e.Answer}
}

func toEntryResponses(entries []domain.ChatEntry) []chatEntryResponse {
	out := make([]chatEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}
