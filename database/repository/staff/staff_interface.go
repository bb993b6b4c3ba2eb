package staffRepo

import (
	"context"

	"salonbook/models"
)

type StaffRepository interface {
	List(ctx context.Context, orgID string) ([]models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
}
