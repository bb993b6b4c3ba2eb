package bookingRepo

import (
	"context"
	"time"

	"salonbook/models"
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// FindByStartTime returns the booking starting exactly at start, or nil, nil.
	FindByStartTime(ctx context.Context, orgID string, start time.Time) (*models.Booking, error)
	// FindIntersecting returns bookings whose [start, end) window meets [from, to).
	FindIntersecting(ctx context.Context, orgID string, from, to time.Time) ([]models.Booking, error)
	GetByID(ctx context.Context, orgID, id string) (*models.Booking, error)
	List(ctx context.Context, orgID string, page models.PageRequest) ([]models.Booking, int64, error)
	// Create inserts booking; a second booking at the same start for the
	// same organisation fails with repository.ErrDuplicate.
	Create(ctx context.Context, booking *models.Booking) error
	// Update changes the free-text details of a booking; times are immutable.
	Update(ctx context.Context, orgID, id string, update models.BookingUpdate) (*models.Booking, error)
	Delete(ctx context.Context, orgID, id string) error
}
