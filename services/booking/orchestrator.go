package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/services/cache"
	"salonbook/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const confirmationSubject = "New Booking Created"

// DefaultBookingService runs the booking steps in order and undoes its own
// writes when a later step fails:
//
//   - booking insert fails: a client created by this call is deleted
//   - confirmation email fails: the booking is deleted, the client is kept
//
// The start-time conflict check is advisory. Two concurrent requests can
// both pass it; the unique (organisation_id, appointmentStartTime) index
// rejects the second insert, which is then reported as ErrSlotTaken.
type DefaultBookingService struct {
	Clients    ClientStore
	Bookings   BookingStore
	Treatments TreatmentReader
	Mailer     notification.Mailer
	Cache      Invalidator
	Reminders  ReminderScheduler
	Logger     *zap.Logger
	Location   *time.Location
	NewID      func() string
}

func (s *DefaultBookingService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *DefaultBookingService) local(t time.Time) time.Time {
	if s.Location != nil {
		return t.In(s.Location)
	}
	return t
}

// CreateBooking books in.AppointmentStartTime for orgID.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, orgID string, in models.BookingInput) (*models.BookingConfirmation, error) {
	logger := s.Logger.With(zap.String("organisationId", orgID))

	client, newClient, err := s.resolveClient(ctx, orgID, in)
	if err != nil {
		return nil, err
	}

	start := in.AppointmentStartTime.UTC().Truncate(time.Millisecond)

	existing, err := s.Bookings.FindByStartTime(ctx, orgID, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConflictCheck, err)
	}
	if existing != nil {
		return nil, ErrSlotTaken
	}

	treatment, err := s.Treatments.GetByID(ctx, orgID, in.TreatmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTreatmentLookup, err)
	}

	booking := &models.Booking{
		ID:                   s.newID(),
		OrganisationID:       orgID,
		ClientID:             client.ID,
		TreatmentID:          in.TreatmentID,
		StaffID:              in.StaffID,
		AppointmentStartTime: start,
		AppointmentEndTime:   start.Add(time.Duration(treatment.DurationInMinutes) * time.Minute),
		Message:              in.Message,
		Status:               models.BookingStatusConfirmed,
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		if newClient {
			s.compensate(ctx, logger, "client", func(ctx context.Context) error {
				return s.Clients.Delete(ctx, orgID, client.ID)
			})
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrBookingCreate, err)
	}

	if err := s.sendConfirmation(ctx, in, treatment, booking); err != nil {
		logger.Error("booking confirmation email failed", zap.String("bookingId", booking.ID), zap.Error(err))
		s.compensate(ctx, logger, "booking", func(ctx context.Context) error {
			return s.Bookings.Delete(ctx, orgID, booking.ID)
		})
		return nil, fmt.Errorf("%w: %v", ErrEmailFailed, err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(cache.BookingCreated)
		if newClient {
			s.Cache.Invalidate(cache.ClientChanged)
		}
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, booking); err != nil {
			logger.Warn("failed to schedule booking reminder", zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("clientId", client.ID),
		zap.Bool("newClient", newClient))

	return &models.BookingConfirmation{
		ID:                   booking.ID,
		Message:              booking.Message,
		Client:               client,
		TreatmentID:          booking.TreatmentID,
		AppointmentStartTime: booking.AppointmentStartTime,
		AppointmentEndTime:   booking.AppointmentEndTime,
		NewClient:            newClient,
		StaffID:              booking.StaffID,
	}, nil
}

// resolveClient matches by email, then phone, and only then inserts.
func (s *DefaultBookingService) resolveClient(ctx context.Context, orgID string, in models.BookingInput) (*models.Client, bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	if email != "" {
		client, err := s.Clients.FindByEmail(ctx, orgID, email)
		if err != nil {
			return nil, false, fmt.Errorf("%w by email: %v", ErrClientLookup, err)
		}
		if client != nil {
			return client, false, nil
		}
	}

	if phone != "" {
		client, err := s.Clients.FindByPhone(ctx, orgID, phone)
		if err != nil {
			return nil, false, fmt.Errorf("%w by phone: %v", ErrClientLookup, err)
		}
		if client != nil {
			return client, false, nil
		}
	}

	client := &models.Client{
		ID:             s.newID(),
		OrganisationID: orgID,
		Name:           strings.TrimSpace(in.Name),
		Email:          optional(email),
		PhoneNumber:    optional(phone),
	}
	if err := s.Clients.Create(ctx, client); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrClientCreate, err)
	}
	return client, true, nil
}

func (s *DefaultBookingService) sendConfirmation(ctx context.Context, in models.BookingInput, treatment *models.Treatment, booking *models.Booking) error {
	html, err := notification.BookingConfirmation(notification.BookingEmail{
		Name:      in.Name,
		Treatment: treatment.Name,
		Price:     treatment.Price,
		Start:     s.local(booking.AppointmentStartTime),
		Message:   in.Message,
	})
	if err != nil {
		return err
	}
	return s.Mailer.Send(ctx, notification.Email{
		To:      []string{in.Email},
		Subject: confirmationSubject,
		HTML:    html,
	})
}

// compensate runs a best-effort undo. Failures are logged and never
// replace the error being returned.
func (s *DefaultBookingService) compensate(ctx context.Context, logger *zap.Logger, what string, undo func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := undo(ctx); err != nil {
		logger.Error("compensating delete failed", zap.String("entity", what), zap.Error(err))
		return
	}
	logger.Warn("compensating delete applied", zap.String("entity", what))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
