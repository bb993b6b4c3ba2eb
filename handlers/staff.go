package handlers

import (
	"net/http"
	"strings"
	"time"

	staffRepo "salonbook/database/repository/staff"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/cache"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StaffHandler struct {
	Repo  staffRepo.StaffRepository
	Cache CacheStore
}

// ListStaff handles GET /api/staff.
func (h *StaffHandler) ListStaff(c *gin.Context) (int, any) {
	items, err := h.Repo.List(c.Request.Context(), middleware.OrganisationID(c))
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to list staff", err))
	}
	return http.StatusOK, gin.H{"data": items}
}

// CreateStaff handles POST /api/staff.
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var in models.StaffInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	member := &models.Staff{
		ID:             uuid.NewString(),
		OrganisationID: middleware.OrganisationID(c),
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Role:           in.Role,
		Active:         in.Active == nil || *in.Active,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.Repo.Create(c.Request.Context(), member); err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to create staff member", err))
		return
	}
	h.Cache.Invalidate(cache.StaffChanged)
	c.JSON(http.StatusCreated, member)
}
