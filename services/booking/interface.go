package booking

import (
	"context"
	"time"

	"salonbook/models"
	"salonbook/services/cache"
)

type ClientStore interface {
	FindByEmail(ctx context.Context, orgID, email string) (*models.Client, error)
	FindByPhone(ctx context.Context, orgID, phone string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, orgID, id string) error
}

type BookingStore interface {
	FindByStartTime(ctx context.Context, orgID string, start time.Time) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, orgID, id string) error
}

type TreatmentReader interface {
	GetByID(ctx context.Context, orgID, id string) (*models.Treatment, error)
}

// Invalidator is satisfied by *cache.Cache.
type Invalidator interface {
	Invalidate(m cache.Mutation)
}

// ReminderScheduler queues a reminder for a confirmed booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking *models.Booking) error
}

// BookingService creates bookings for the public booking form.
type BookingService interface {
	CreateBooking(ctx context.Context, orgID string, in models.BookingInput) (*models.BookingConfirmation, error)
}
