package ports

import (
	"context"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

// CredentialRepository defines the interface for user credential persistence.
type CredentialRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
