package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingConfirmation(t *testing.T) {
	start := time.Date(2025, time.March, 3, 14, 30, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		data        BookingEmail
		contains    []string
		notContains []string
	}{
		{
			name:     "with_price_and_message",
			data:     BookingEmail{Name: "Ana", Treatment: "Gel nails", Price: 25, Start: start, Message: "window seat"},
			contains: []string{"Hi Ana,", "Gel nails - £25.00", "Monday 3 March 2025 at 14:30", "Message: window seat"},
		},
		{
			name:        "free_without_message",
			data:        BookingEmail{Name: "Bo", Treatment: "Consultation", Start: start},
			contains:    []string{"Consultation"},
			notContains: []string{"£", "Message:"},
		},
		{
			name:        "escapes_input",
			data:        BookingEmail{Name: "<script>", Treatment: "Cut", Start: start},
			contains:    []string{"&lt;script&gt;"},
			notContains: []string{"<script>"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			html, err := BookingConfirmation(tc.data)
			require.NoError(t, err)
			for _, s := range tc.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, html, s)
			}
		})
	}
}

func TestReminderAndFormTemplatesRender(t *testing.T) {
	html, err := BookingReminder(BookingEmail{Name: "Ana", Treatment: "Cut", Start: time.Now()})
	require.NoError(t, err)
	assert.Contains(t, html, "Ana")

	html, err = FormSubmissionReceived(FormSubmissionEmail{Name: "Ana", Message: "Hello there"})
	require.NoError(t, err)
	assert.Contains(t, html, "Hello there")
}
