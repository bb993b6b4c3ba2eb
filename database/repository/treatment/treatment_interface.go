package treatmentRepo

import (
	"context"

	"salonbook/models"
)

// TreatmentRepository defines methods for treatment data access.
type TreatmentRepository interface {
	// GetByID returns repository.ErrNotFound when the treatment does not
	// exist for the organisation.
	GetByID(ctx context.Context, orgID, id string) (*models.Treatment, error)
	List(ctx context.Context, orgID string) ([]models.Treatment, error)
	// ListIDsByCategory returns only the ids of the category's treatments.
	ListIDsByCategory(ctx context.Context, orgID, categoryID string) ([]string, error)
	Create(ctx context.Context, treatment *models.Treatment) error
}
