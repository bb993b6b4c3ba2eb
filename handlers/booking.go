package handlers

import (
	"errors"
	"net/http"
	"strings"

	"salonbook/database/repository"
	bookingRepo "salonbook/database/repository/booking"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/availability"
	"salonbook/services/booking"
	"salonbook/services/cache"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service      booking.BookingService
	Availability availability.AvailabilityService
	Repo         bookingRepo.BookingRepository
	Cache        CacheStore
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var in models.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	orgID := middleware.OrganisationID(c)
	confirmation, err := h.Service.CreateBooking(c.Request.Context(), orgID, in)
	if err != nil {
		getLogger(c).Warn("booking not created", zap.String("organisationId", orgID), zap.Error(err))
		utils.RespondError(c, bookingError(err))
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

func bookingError(err error) error {
	switch {
	case errors.Is(err, booking.ErrSlotTaken):
		return utils.NewConflictError("This appointment start time is already booked")
	case errors.Is(err, booking.ErrTreatmentNotFound):
		return utils.NewNotFoundError("Treatment not found")
	case errors.Is(err, booking.ErrClientLookup):
		return utils.NewInternalError("Failed to query client", err)
	case errors.Is(err, booking.ErrClientCreate):
		return utils.NewInternalError("Failed to create client", err)
	case errors.Is(err, booking.ErrConflictCheck):
		return utils.NewInternalError("Failed to verify booking availability", err)
	case errors.Is(err, booking.ErrTreatmentLookup):
		return utils.NewInternalError("Failed to load treatment duration", err)
	case errors.Is(err, booking.ErrBookingCreate):
		return utils.NewInternalError("Failed to create booking", err)
	case errors.Is(err, booking.ErrEmailFailed):
		return utils.NewInternalError("Failed to send email", err)
	default:
		return err
	}
}

// ListBookings handles GET /api/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) (int, any) {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, err)
	}
	items, total, err := h.Repo.List(c.Request.Context(), middleware.OrganisationID(c), page)
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to list bookings", err))
	}
	return http.StatusOK, models.Page[models.Booking]{Data: items, Meta: models.NewPageMeta(total, page)}
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) (int, any) {
	b, err := h.Repo.GetByID(c.Request.Context(), middleware.OrganisationID(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, utils.NewNotFoundError("Booking not found"))
	}
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to load booking", err))
	}
	return http.StatusOK, b
}

// GetAvailability handles GET /api/bookings/availability?treatmentId=&date=.
func (h *BookingHandler) GetAvailability(c *gin.Context) (int, any) {
	treatmentID := strings.TrimSpace(c.Query("treatmentId"))
	date := strings.TrimSpace(c.Query("date"))

	var issues []utils.Issue
	if treatmentID == "" {
		issues = append(issues, utils.Issue{Path: []string{"treatmentId"}, Code: "required", Message: "treatmentId is required"})
	}
	if date == "" {
		issues = append(issues, utils.Issue{Path: []string{"date"}, Code: "required", Message: "date is required"})
	}
	if len(issues) > 0 {
		return fail(c, utils.NewValidationError("Validation failed", issues))
	}

	resp, err := h.Availability.ComputeSlots(c.Request.Context(), middleware.OrganisationID(c), treatmentID, date)
	switch {
	case err == nil:
		return http.StatusOK, resp
	case errors.Is(err, availability.ErrInvalidDate):
		return fail(c, utils.NewValidationError("Validation failed", []utils.Issue{{
			Path: []string{"date"}, Code: "invalid_date", Message: "date must be YYYY-MM-DD",
		}}))
	case errors.Is(err, availability.ErrTreatmentNotFound):
		return fail(c, utils.NewNotFoundError("Treatment not found"))
	default:
		return fail(c, utils.NewInternalError("Failed to compute availability", err))
	}
}

// UpdateBooking handles PATCH /api/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var in models.BookingUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	updated, err := h.Repo.Update(c.Request.Context(), middleware.OrganisationID(c), c.Param("id"), in)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondError(c, utils.NewNotFoundError("Booking not found"))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to update booking", err))
		return
	}
	h.Cache.Invalidate(cache.BookingUpdated)
	c.JSON(http.StatusOK, updated)
}

// DeleteBooking handles DELETE /api/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id := c.Param("id")
	err := h.Repo.Delete(c.Request.Context(), middleware.OrganisationID(c), id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondError(c, utils.NewNotFoundError("Booking not found"))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to delete booking", err))
		return
	}
	h.Cache.Invalidate(cache.BookingDeleted)
	getLogger(c).Info("booking deleted", zap.String("bookingId", id))
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}
