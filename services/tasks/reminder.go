package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonbook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingReminder = "reminder:booking"

// DefaultEnqueueTimeout bounds how long a booking request waits on the queue.
const DefaultEnqueueTimeout = 2 * time.Second

// NewReminderTask builds the reminder task for a booking. The task id is
// derived from the booking so a booking is reminded at most once.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ReminderAt is when a reminder for start should fire, and whether it is
// still worth sending.
func ReminderAt(start time.Time, lead time.Duration, now time.Time) (time.Time, bool) {
	fireAt := start.Add(-lead)
	if !fireAt.After(now) {
		return time.Time{}, false
	}
	return fireAt, true
}

// Enqueuer is the part of *asynq.Client the scheduler uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues booking reminders on asynq.
type ReminderScheduler struct {
	Queue  Enqueuer
	Lead   time.Duration
	Logger *zap.Logger
	Now    func() time.Time

	// Timeout caps a single enqueue; zero means DefaultEnqueueTimeout.
	Timeout time.Duration
}

func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	fireAt, ok := ReminderAt(booking.AppointmentStartTime, s.Lead, now)
	if !ok {
		s.Logger.Debug("booking too close for a reminder", zap.String("bookingId", booking.ID))
		return nil
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{
		BookingID:      booking.ID,
		OrganisationID: booking.OrganisationID,
	}, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultEnqueueTimeout
	}
	enqueueCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	info, err := s.Queue.EnqueueContext(enqueueCtx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	s.Logger.Info("booking reminder scheduled",
		zap.String("bookingId", booking.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
