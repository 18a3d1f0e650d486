package tutor

import (
	"fmt"

	"github.com/smartclassroom/classroom-api/internal/core/ports"
)

// malformed wraps ports.ErrMalformedReply so the gateway can distinguish a
// structurally broken upstream reply from a transport failure.
func malformed(detail string) error {
	return fmt.Errorf("%w: %s", ports.ErrMalformedReply, detail)
}
