package clientRepo

import (
	"context"

	"salonbook/models"
)

// ClientRepository defines methods for client data access. Every method is
// scoped to one organisation.
type ClientRepository interface {
	// FindByEmail returns nil, nil when no client has the email.
	FindByEmail(ctx context.Context, orgID, email string) (*models.Client, error)
	// FindByPhone returns nil, nil when no client has the phone number.
	FindByPhone(ctx context.Context, orgID, phone string) (*models.Client, error)
	GetByID(ctx context.Context, orgID, id string) (*models.Client, error)
	List(ctx context.Context, orgID string, page models.PageRequest) ([]models.Client, int64, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, orgID, id string, update models.ClientUpdate) (*models.Client, error)
	Delete(ctx context.Context, orgID, id string) error
}
