package handlers

import (
	"errors"
	"net/http"

	"salonbook/database/repository"
	formRepo "salonbook/database/repository/formsubmission"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/forms"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FormSubmissionHandler struct {
	Service *forms.Service
	Repo    formRepo.FormSubmissionRepository
}

// SubmitForm handles POST /api/form-submissions.
func (h *FormSubmissionHandler) SubmitForm(c *gin.Context) {
	var in models.FormSubmissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}

	result, err := h.Service.Submit(c.Request.Context(), middleware.OrganisationID(c), in)
	if err != nil {
		getLogger(c).Warn("form submission failed", zap.Error(err))
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			utils.RespondError(c, utils.NewConflictError("Client already exists"))
		case errors.Is(err, forms.ErrClientLookup):
			utils.RespondError(c, utils.NewInternalError("Failed to lookup client by email", err))
		case errors.Is(err, forms.ErrClientCreate):
			utils.RespondError(c, utils.NewInternalError("Failed to create client", err))
		default:
			utils.RespondError(c, utils.NewInternalError("Failed to save form submission", err))
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListFormSubmissions handles GET /api/form-submissions.
func (h *FormSubmissionHandler) ListFormSubmissions(c *gin.Context) (int, any) {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, err)
	}
	items, total, err := h.Repo.List(c.Request.Context(), middleware.OrganisationID(c), page)
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to list form submissions", err))
	}
	return http.StatusOK, models.Page[models.FormSubmission]{Data: items, Meta: models.NewPageMeta(total, page)}
}
