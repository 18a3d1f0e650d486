package ports

import (
	"context"
	"errors"
)

// ErrMalformedReply is returned by a TextGenerator when the upstream call
// succeeded at the transport level but the response carried no usable text.
var ErrMalformedReply = errors.New("malformed generator reply")

// TextGenerator is the raw external generation collaborator: one synchronous
// call taking a composed instruction-plus-question string.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TutorGateway wraps a TextGenerator so that every call path yields a
// displayable string. It never fails past its own boundary.
type TutorGateway interface {
	Ask(ctx context.Context, question string) string
}
