package handlers

import (
	"net/http"
	"strconv"

	businessRepo "salonbook/database/repository/business"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/cache"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	Hours businessRepo.OpeningHoursRepository
	Cache CacheStore
}

// GetOpeningHours handles GET /api/business/opening-hours.
func (h *BusinessHandler) GetOpeningHours(c *gin.Context) (int, any) {
	hours, err := h.Hours.List(c.Request.Context(), middleware.OrganisationID(c))
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to load opening hours", err))
	}
	return http.StatusOK, gin.H{"data": hours}
}

// SetOpeningHours handles PUT /api/business/opening-hours/:day. Day follows
// time.Weekday, 0 being Sunday.
func (h *BusinessHandler) SetOpeningHours(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 0 || day > 6 {
		utils.RespondError(c, utils.NewValidationError("Validation failed", []utils.Issue{{
			Path: []string{"day"}, Code: "invalid_day", Message: "day must be between 0 (Sunday) and 6 (Saturday)",
		}}))
		return
	}

	var in models.OpeningHoursInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	if withSeconds(in.OpensAt) >= withSeconds(in.ClosesAt) {
		utils.RespondError(c, utils.NewValidationError("Validation failed", []utils.Issue{{
			Path: []string{"closes_at"}, Code: "invalid_range", Message: "closes_at must be after opens_at",
		}}))
		return
	}

	hours := &models.OpeningHours{
		OrganisationID: middleware.OrganisationID(c),
		Day:            day,
		OpensAt:        in.OpensAt,
		ClosesAt:       in.ClosesAt,
	}
	if err := h.Hours.Upsert(c.Request.Context(), hours); err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to save opening hours", err))
		return
	}
	h.Cache.Invalidate(cache.OpeningHoursChanged)
	c.JSON(http.StatusOK, hours)
}

// withSeconds pads a validated HH:MM clock to HH:MM:SS so clocks compare
// as strings.
func withSeconds(clock string) string {
	if len(clock) == len("15:04") {
		return clock + ":00"
	}
	return clock
}
