package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"salonbook/database/repository"
	categoryRepo "salonbook/database/repository/category"
	treatmentRepo "salonbook/database/repository/treatment"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/cache"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TreatmentHandler struct {
	Repo       treatmentRepo.TreatmentRepository
	Categories categoryRepo.CategoryRepository
	Cache      CacheStore
}

// ListTreatments handles GET /api/treatments.
func (h *TreatmentHandler) ListTreatments(c *gin.Context) (int, any) {
	items, err := h.Repo.List(c.Request.Context(), middleware.OrganisationID(c))
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to list treatments", err))
	}
	return http.StatusOK, gin.H{"data": items}
}

// TreatmentsByCategory handles GET /api/treatments/byCategory/:categoryId.
func (h *TreatmentHandler) TreatmentsByCategory(c *gin.Context) (int, any) {
	ctx := c.Request.Context()
	orgID := middleware.OrganisationID(c)
	categoryID := c.Param("categoryId")

	ids, err := h.Repo.ListIDsByCategory(ctx, orgID, categoryID)
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to list treatments", err))
	}
	all, err := h.Repo.List(ctx, orgID)
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to list treatments", err))
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	items := make([]models.Treatment, 0, len(ids))
	for _, t := range all {
		if wanted[t.ID] {
			items = append(items, t)
		}
	}
	return http.StatusOK, gin.H{"categoryId": categoryID, "items": items}
}

// RespondByCategory shapes a cache hit like TreatmentsByCategory does.
func RespondByCategory(c *gin.Context, items []json.RawMessage) any {
	return gin.H{"categoryId": c.Param("categoryId"), "items": items}
}

// CreateTreatment handles POST /api/treatments.
func (h *TreatmentHandler) CreateTreatment(c *gin.Context) {
	var in models.TreatmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	ctx := c.Request.Context()
	orgID := middleware.OrganisationID(c)

	if in.CategoryID != "" {
		_, err := h.Categories.GetByID(ctx, orgID, in.CategoryID)
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondError(c, utils.NewNotFoundError("Category not found"))
			return
		}
		if err != nil {
			utils.RespondError(c, utils.NewInternalError("Failed to load category", err))
			return
		}
	}

	treatment := &models.Treatment{
		ID:                uuid.NewString(),
		OrganisationID:    orgID,
		CategoryID:        in.CategoryID,
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		Price:             in.Price,
		DurationInMinutes: in.DurationInMinutes,
		ShowOnWeb:         in.ShowOnWeb,
		CreatedAt:         time.Now().UTC(),
	}
	if err := h.Repo.Create(ctx, treatment); err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to create treatment", err))
		return
	}
	h.Cache.Invalidate(cache.TreatmentChanged)
	c.JSON(http.StatusCreated, treatment)
}
