package apikeyRepo

import (
	"context"

	"salonbook/models"
)

// APIKeyRepository stores hashed API keys.
type APIKeyRepository interface {
	// GetByKeyID returns repository.ErrNotFound for unknown keys.
	GetByKeyID(ctx context.Context, keyID string) (*models.APIKey, error)
	Create(ctx context.Context, key *models.APIKey) error
	Delete(ctx context.Context, keyID string) error
}
