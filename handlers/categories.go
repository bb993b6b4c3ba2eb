package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"salonbook/database/repository"
	categoryRepo "salonbook/database/repository/category"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/cache"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	Repo  categoryRepo.CategoryRepository
	Cache CacheStore
}

// ListCategories handles GET /api/treatment-categories.
func (h *CategoryHandler) ListCategories(c *gin.Context) (int, any) {
	items, err := h.Repo.List(c.Request.Context(), middleware.OrganisationID(c))
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to list categories", err))
	}
	return http.StatusOK, gin.H{"data": items}
}

// GetCategory handles GET /api/treatment-categories/:id.
func (h *CategoryHandler) GetCategory(c *gin.Context) (int, any) {
	category, err := h.Repo.GetByID(c.Request.Context(), middleware.OrganisationID(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, utils.NewNotFoundError("Category not found"))
	}
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to load category", err))
	}
	return http.StatusOK, category
}

// CreateCategory handles POST /api/treatment-categories.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	category := &models.TreatmentCategory{
		ID:             uuid.NewString(),
		OrganisationID: middleware.OrganisationID(c),
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		CreatedAt:      time.Now().UTC(),
	}
	err := h.Repo.Create(c.Request.Context(), category)
	if errors.Is(err, repository.ErrDuplicate) {
		utils.RespondError(c, utils.NewConflictError("Category already exists"))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to create category", err))
		return
	}
	h.Cache.Invalidate(cache.CategoryChanged)
	c.JSON(http.StatusCreated, category)
}
