package businessRepo

import (
	"context"

	"salonbook/models"
)

// OpeningHoursRepository defines methods for a tenant's weekly trading hours.
type OpeningHoursRepository interface {
	// GetForDay returns nil, nil when the business is closed that day.
	GetForDay(ctx context.Context, orgID string, day int) (*models.OpeningHours, error)
	List(ctx context.Context, orgID string) ([]models.OpeningHours, error)
	Upsert(ctx context.Context, hours *models.OpeningHours) error
}
