package categoryRepo

import (
	"context"

	"salonbook/models"
)

// CategoryRepository defines methods for treatment category data access.
type CategoryRepository interface {
	GetByID(ctx context.Context, orgID, id string) (*models.TreatmentCategory, error)
	List(ctx context.Context, orgID string) ([]models.TreatmentCategory, error)
	Create(ctx context.Context, category *models.TreatmentCategory) error
}
