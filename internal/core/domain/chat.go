package domain

import (
	"errors"
	"time"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrClassSessionExpired = errors.New("class session has ended")

// ErrInvalidUsername marks a username the file-per-student layout cannot
// accept (path separators, relative segments, surrounding whitespace). It is
// a validation failure, not an authentication one.
var ErrInvalidUsername = errors.New("invalid username")

// ErrStorage marks any failure reading or writing the persistence files.
// Adapters wrap it so the transport layer can map every storage fault to one
// HTTP status without inspecting file-system error strings.
var ErrStorage = errors.New("storage failure")

// ChatEntry is one question/answer exchange owned by exactly one student.
// Entries are append-only: never edited, never removed individually.
type ChatEntry struct {
	Time     time.Time `json:"time"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
}

// StudentActivity groups one student's full history for the teacher views.
type StudentActivity struct {
	Student string      `json:"student"`
	Entries []ChatEntry `json:"entries"`
}
