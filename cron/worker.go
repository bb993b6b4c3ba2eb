package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/services/notification"
	"salonbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type bookingReader interface {
	GetByID(ctx context.Context, orgID, id string) (*models.Booking, error)
}

type clientReader interface {
	GetByID(ctx context.Context, orgID, id string) (*models.Client, error)
}

type treatmentReader interface {
	GetByID(ctx context.Context, orgID, id string) (*models.Treatment, error)
}

// ReminderHandler emails a client ahead of their appointment.
type ReminderHandler struct {
	Bookings   bookingReader
	Clients    clientReader
	Treatments treatmentReader
	Mailer     notification.Mailer
	Location   *time.Location
	Logger     *zap.Logger
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(redisOpts asynq.RedisClientOpt, h *ReminderHandler, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReminder, h.ProcessTask)

	// Start async worker with retry logic
	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("reminder worker giving up; reminders will not be sent")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// ProcessTask implements asynq.HandlerFunc.
func (h *ReminderHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.Logger.Error("invalid reminder payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	logger := h.Logger.With(zap.String("bookingId", p.BookingID), zap.String("organisationId", p.OrganisationID))

	booking, err := h.Bookings.GetByID(ctx, p.OrganisationID, p.BookingID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Info("booking gone, reminder dropped")
		return nil
	}
	if err != nil {
		return err
	}

	client, err := h.Clients.GetByID(ctx, p.OrganisationID, booking.ClientID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && client.Email == nil) {
		logger.Info("client has no email, reminder dropped")
		return nil
	}
	if err != nil {
		return err
	}

	treatmentName := "appointment"
	if treatment, err := h.Treatments.GetByID(ctx, p.OrganisationID, booking.TreatmentID); err == nil {
		treatmentName = treatment.Name
	}

	start := booking.AppointmentStartTime
	if h.Location != nil {
		start = start.In(h.Location)
	}
	html, err := notification.BookingReminder(notification.BookingEmail{
		Name:      client.Name,
		Treatment: treatmentName,
		Start:     start,
	})
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := h.Mailer.Send(ctx, notification.Email{
		To:      []string{*client.Email},
		Subject: "Appointment reminder",
		HTML:    html,
	}); err != nil {
		logger.Warn("reminder email failed", zap.Error(err))
		return err
	}
	logger.Info("reminder sent")
	return nil
}
