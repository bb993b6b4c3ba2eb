package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonbook/database/repository"
	"salonbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = "2025-03-12" // a Wednesday

type fakeTreatments map[string]*models.Treatment

func (f fakeTreatments) GetByID(ctx context.Context, orgID, id string) (*models.Treatment, error) {
	t, ok := f[id]
	if !ok || t.OrganisationID != orgID {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

type fakeHours map[int]*models.OpeningHours

func (f fakeHours) GetForDay(ctx context.Context, orgID string, day int) (*models.OpeningHours, error) {
	return f[day], nil
}

type fakeBookings struct {
	bookings []models.Booking
	err      error
	from, to time.Time
}

func (f *fakeBookings) FindIntersecting(ctx context.Context, orgID string, from, to time.Time) ([]models.Booking, error) {
	f.from, f.to = from, to
	return f.bookings, f.err
}

func at(loc *time.Location, clock string) time.Time {
	day, _ := time.ParseInLocation(dateLayout, testDate, loc)
	t, _ := atClock(day, clock)
	return t
}

func newEngine(loc *time.Location, now time.Time, bookings ...models.Booking) (*DefaultAvailabilityService, *fakeBookings) {
	fb := &fakeBookings{bookings: bookings}
	return &DefaultAvailabilityService{
		Treatments: fakeTreatments{
			"cut":    {ID: "cut", OrganisationID: "org", DurationInMinutes: 30, ShowOnWeb: true},
			"colour": {ID: "colour", OrganisationID: "org", DurationInMinutes: 90, ShowOnWeb: true},
			"hidden": {ID: "hidden", OrganisationID: "org", DurationInMinutes: 30, ShowOnWeb: false},
		},
		Hours: fakeHours{
			int(time.Wednesday): {OrganisationID: "org", Day: int(time.Wednesday), OpensAt: "09:00", ClosesAt: "17:00"},
			int(time.Thursday):  {OrganisationID: "org", Day: int(time.Thursday), OpensAt: "09:00:00+00", ClosesAt: "12:00:00+00"},
		},
		Bookings: fb,
		Location: loc,
		Step:     10 * time.Minute,
		Now:      func() time.Time { return now },
	}, fb
}

func booking(loc *time.Location, start, end string) models.Booking {
	return models.Booking{AppointmentStartTime: at(loc, start), AppointmentEndTime: at(loc, end)}
}

func TestComputeSlots_OpenDayFromEarlyMorning(t *testing.T) {
	engine, fb := newEngine(time.UTC, at(time.UTC, "08:00"))

	resp, err := engine.ComputeSlots(context.Background(), "org", "cut", testDate)
	require.NoError(t, err)

	assert.Equal(t, testDate, resp.Date)
	assert.Equal(t, "cut", resp.TreatmentID)
	assert.Equal(t, 30, resp.DurationInMinutes)
	require.Len(t, resp.Slots, 46)
	assert.Equal(t, "09:00", resp.Slots[0])
	assert.Equal(t, "09:10", resp.Slots[1])
	assert.Equal(t, "16:30", resp.Slots[len(resp.Slots)-1])

	assert.Equal(t, at(time.UTC, "09:00"), fb.from)
	assert.Equal(t, at(time.UTC, "17:00"), fb.to)
}

func TestComputeSlots_ExistingBookingBoundaries(t *testing.T) {
	engine, _ := newEngine(time.UTC, at(time.UTC, "08:00"), booking(time.UTC, "10:00", "10:30"))

	resp, err := engine.ComputeSlots(context.Background(), "org", "cut", testDate)
	require.NoError(t, err)

	for _, blocked := range []string{"09:40", "09:50", "10:00", "10:10", "10:20"} {
		assert.NotContains(t, resp.Slots, blocked)
	}
	assert.Contains(t, resp.Slots, "09:30")
	assert.Contains(t, resp.Slots, "10:30")
	assert.Len(t, resp.Slots, 41)
}

func TestComputeSlots_SkipsPastStartsToday(t *testing.T) {
	testCases := []struct {
		name     string
		now      string
		expected string
	}{
		{name: "mid_step", now: "12:05", expected: "12:10"},
		{name: "exactly_on_slot", now: "12:00", expected: "12:10"},
		{name: "before_opening", now: "07:00", expected: "09:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine, _ := newEngine(time.UTC, at(time.UTC, tc.now))
			resp, err := engine.ComputeSlots(context.Background(), "org", "cut", testDate)
			require.NoError(t, err)
			require.NotEmpty(t, resp.Slots)
			assert.Equal(t, tc.expected, resp.Slots[0])
		})
	}
}

func TestComputeSlots_FutureDayIgnoresClock(t *testing.T) {
	engine, _ := newEngine(time.UTC, at(time.UTC, "16:00").AddDate(0, 0, -1))

	resp, err := engine.ComputeSlots(context.Background(), "org", "cut", testDate)
	require.NoError(t, err)
	assert.Equal(t, "09:00", resp.Slots[0])
}

func TestComputeSlots_ClosedDay(t *testing.T) {
	engine, fb := newEngine(time.UTC, at(time.UTC, "08:00"))

	resp, err := engine.ComputeSlots(context.Background(), "org", "cut", "2025-03-14") // Friday
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots)
	assert.True(t, fb.from.IsZero())
}

func TestComputeSlots_StripsZoneSuffix(t *testing.T) {
	loc := time.FixedZone("salon", 2*60*60)
	engine, _ := newEngine(loc, at(loc, "08:00"))

	resp, err := engine.ComputeSlots(context.Background(), "org", "cut", "2025-03-13") // Thursday
	require.NoError(t, err)
	assert.Equal(t, "09:00", resp.Slots[0])
	assert.Equal(t, "11:30", resp.Slots[len(resp.Slots)-1])
}

func TestComputeSlots_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		treatment   string
		date        string
		bookingsErr error
		expectedErr error
	}{
		{name: "unknown_treatment", treatment: "nope", date: testDate, expectedErr: ErrTreatmentNotFound},
		{name: "hidden_treatment", treatment: "hidden", date: testDate, expectedErr: ErrTreatmentNotFound},
		{name: "bad_date", treatment: "cut", date: "12/03/2025", expectedErr: ErrInvalidDate},
		{name: "bookings_query_fails", treatment: "cut", date: testDate, bookingsErr: errors.New("db down")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine, fb := newEngine(time.UTC, at(time.UTC, "08:00"))
			fb.err = tc.bookingsErr

			_, err := engine.ComputeSlots(context.Background(), "org", tc.treatment, tc.date)
			require.Error(t, err)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.ErrorIs(t, err, tc.bookingsErr)
			}
		})
	}
}

func TestComputeSlots_NoSlotOverlapsBookingsAndStaysInHours(t *testing.T) {
	existing := []models.Booking{
		booking(time.UTC, "09:15", "10:45"),
		booking(time.UTC, "12:00", "12:30"),
		booking(time.UTC, "15:50", "17:00"),
	}
	engine, _ := newEngine(time.UTC, at(time.UTC, "08:00"), existing...)

	first, err := engine.ComputeSlots(context.Background(), "org", "colour", testDate)
	require.NoError(t, err)
	second, err := engine.ComputeSlots(context.Background(), "org", "colour", testDate)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NotEmpty(t, first.Slots)
	duration := 90 * time.Minute
	for _, slot := range first.Slots {
		start := at(time.UTC, slot)
		end := start.Add(duration)
		assert.False(t, start.Before(at(time.UTC, "09:00")), slot)
		assert.False(t, end.After(at(time.UTC, "17:00")), slot)
		for _, b := range existing {
			assert.True(t, !start.Before(b.AppointmentEndTime) || !end.After(b.AppointmentStartTime), "%s overlaps %v", slot, b.AppointmentStartTime)
		}
	}
}

func TestComputeSlots_StepEqualToDuration(t *testing.T) {
	engine, _ := newEngine(time.UTC, at(time.UTC, "08:00"))
	engine.Step = 30 * time.Minute

	resp, err := engine.ComputeSlots(context.Background(), "org", "cut", testDate)
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 16)
	assert.Equal(t, "09:30", resp.Slots[1])
}
