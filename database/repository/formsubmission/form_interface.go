package formRepo

import (
	"context"

	"salonbook/models"
)

type FormSubmissionRepository interface {
	Create(ctx context.Context, submission *models.FormSubmission) error
	List(ctx context.Context, orgID string, page models.PageRequest) ([]models.FormSubmission, int64, error)
}
