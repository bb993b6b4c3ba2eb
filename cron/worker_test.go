package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"salonbook/database/repository"
	mock_notification "salonbook/mocks/notification"
	"salonbook/models"
	"salonbook/services/notification"
	"salonbook/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type stubBookings map[string]*models.Booking

func (s stubBookings) GetByID(ctx context.Context, orgID, id string) (*models.Booking, error) {
	if b, ok := s[id]; ok {
		return b, nil
	}
	return nil, repository.ErrNotFound
}

type stubClients map[string]*models.Client

func (s stubClients) GetByID(ctx context.Context, orgID, id string) (*models.Client, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

type stubTreatments map[string]*models.Treatment

func (s stubTreatments) GetByID(ctx context.Context, orgID, id string) (*models.Treatment, error) {
	if t, ok := s[id]; ok {
		return t, nil
	}
	return nil, repository.ErrNotFound
}

func reminderTask(t *testing.T, bookingID string) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(models.ReminderPayload{BookingID: bookingID, OrganisationID: "org-1"})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeBookingReminder, b)
}

func TestReminderHandler_ProcessTask(t *testing.T) {
	email := "jane@example.com"
	start := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		bookingID   string
		mailErr     error
		expectMail  bool
		expectedErr bool
	}{
		{name: "sends_reminder", bookingID: "b-1", expectMail: true},
		{name: "booking_deleted", bookingID: "gone"},
		{name: "client_without_email", bookingID: "b-2"},
		{name: "mailer_failure_retries", bookingID: "b-1", mailErr: errors.New("503"), expectMail: true, expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mailer := mock_notification.NewMockMailer(ctrl)
			if tc.expectMail {
				mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e notification.Email) error {
					assert.Equal(t, []string{email}, e.To)
					assert.Contains(t, e.HTML, "Balayage")
					return tc.mailErr
				})
			}

			h := &ReminderHandler{
				Bookings: stubBookings{
					"b-1": {ID: "b-1", ClientID: "c-1", TreatmentID: "t-1", AppointmentStartTime: start},
					"b-2": {ID: "b-2", ClientID: "c-2", TreatmentID: "t-1", AppointmentStartTime: start},
				},
				Clients: stubClients{
					"c-1": {ID: "c-1", Name: "Jane", Email: &email},
					"c-2": {ID: "c-2", Name: "Sam"},
				},
				Treatments: stubTreatments{"t-1": {ID: "t-1", Name: "Balayage"}},
				Mailer:     mailer,
				Logger:     zap.NewNop(),
			}

			err := h.ProcessTask(context.Background(), reminderTask(t, tc.bookingID))
			if tc.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReminderHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := &ReminderHandler{Logger: zap.NewNop()}
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeBookingReminder, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
