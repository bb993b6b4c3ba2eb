package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"salonbook/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQueue struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (q *fakeQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	q.opts = append(q.opts, opts)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func TestReminderAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		start    time.Time
		expectOK bool
		expected time.Time
	}{
		{name: "two_days_out", start: now.Add(48 * time.Hour), expectOK: true, expected: now.Add(24 * time.Hour)},
		{name: "inside_lead", start: now.Add(3 * time.Hour), expectOK: false},
		{name: "exactly_lead", start: now.Add(24 * time.Hour), expectOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			at, ok := ReminderAt(tc.start, 24*time.Hour, now)
			assert.Equal(t, tc.expectOK, ok)
			if tc.expectOK {
				assert.Equal(t, tc.expected, at)
			}
		})
	}
}

func TestReminderScheduler_Enqueues(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	q := &fakeQueue{}
	s := &ReminderScheduler{Queue: q, Lead: 24 * time.Hour, Logger: zap.NewNop(), Now: func() time.Time { return now }}

	err := s.ScheduleReminder(context.Background(), &models.Booking{
		ID:                   "b-1",
		OrganisationID:       "org-1",
		AppointmentStartTime: now.Add(72 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeBookingReminder, q.tasks[0].Type())

	var payload models.ReminderPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, models.ReminderPayload{BookingID: "b-1", OrganisationID: "org-1"}, payload)
	assert.Len(t, q.opts[0], 3)
}

func TestReminderScheduler_SkipsAndErrors(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	q := &fakeQueue{}
	s := &ReminderScheduler{Queue: q, Lead: 24 * time.Hour, Logger: zap.NewNop(), Now: func() time.Time { return now }}
	require.NoError(t, s.ScheduleReminder(context.Background(), &models.Booking{ID: "b-1", AppointmentStartTime: now.Add(time.Hour)}))
	assert.Empty(t, q.tasks)

	q.err = errors.New("redis down")
	err := s.ScheduleReminder(context.Background(), &models.Booking{ID: "b-2", AppointmentStartTime: now.Add(48 * time.Hour)})
	assert.ErrorIs(t, err, q.err)
}

type stalledQueue struct{}

func (stalledQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestReminderScheduler_EnqueueTimesOut(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := &ReminderScheduler{
		Queue:   stalledQueue{},
		Lead:    24 * time.Hour,
		Logger:  zap.NewNop(),
		Now:     func() time.Time { return now },
		Timeout: 20 * time.Millisecond,
	}

	started := time.Now()
	err := s.ScheduleReminder(context.Background(), &models.Booking{ID: "b-1", AppointmentStartTime: now.Add(48 * time.Hour)})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), time.Second)
}
