package availability

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"salonbook/database/repository"
	"salonbook/models"
)

const dateLayout = "2006-01-02"

var (
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrInvalidHours      = errors.New("opening hours are malformed")
)

// HH:MM with optional seconds; anything after (zone suffixes) is ignored.
var clockPrefix = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?`)

type TreatmentReader interface {
	GetByID(ctx context.Context, orgID, id string) (*models.Treatment, error)
}

type OpeningHoursReader interface {
	GetForDay(ctx context.Context, orgID string, day int) (*models.OpeningHours, error)
}

type BookingRangeReader interface {
	FindIntersecting(ctx context.Context, orgID string, from, to time.Time) ([]models.Booking, error)
}

// AvailabilityService computes open appointment start times.
type AvailabilityService interface {
	ComputeSlots(ctx context.Context, orgID, treatmentID, date string) (*models.AvailabilityResponse, error)
}

// DefaultAvailabilityService walks the day in fixed steps and drops every
// candidate that starts in the past or overlaps an existing booking.
type DefaultAvailabilityService struct {
	Treatments TreatmentReader
	Hours      OpeningHoursReader
	Bookings   BookingRangeReader
	Location   *time.Location
	Step       time.Duration
	Now        func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAvailabilityService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

func (s *DefaultAvailabilityService) step() time.Duration {
	if s.Step > 0 {
		return s.Step
	}
	return 10 * time.Minute
}

// ComputeSlots returns the free "HH:MM" starts for treatmentID on date.
// A closed day yields an empty list, not an error.
func (s *DefaultAvailabilityService) ComputeSlots(ctx context.Context, orgID, treatmentID, date string) (*models.AvailabilityResponse, error) {
	loc := s.location()
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	treatment, err := s.Treatments.GetByID(ctx, orgID, treatmentID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !treatment.ShowOnWeb) {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, err
	}

	resp := &models.AvailabilityResponse{
		Date:              date,
		TreatmentID:       treatmentID,
		DurationInMinutes: treatment.DurationInMinutes,
		Slots:             []string{},
	}
	if treatment.DurationInMinutes <= 0 {
		return resp, nil
	}

	hours, err := s.Hours.GetForDay(ctx, orgID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if hours == nil {
		return resp, nil
	}

	dayStart, err := atClock(day, hours.OpensAt)
	if err != nil {
		return nil, err
	}
	dayEnd, err := atClock(day, hours.ClosesAt)
	if err != nil {
		return nil, err
	}
	if !dayEnd.After(dayStart) {
		return resp, nil
	}

	bookings, err := s.Bookings.FindIntersecting(ctx, orgID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	isToday := now.Format(dateLayout) == date
	duration := time.Duration(treatment.DurationInMinutes) * time.Minute

	for start := dayStart; !start.Add(duration).After(dayEnd); start = start.Add(s.step()) {
		if isToday && !start.After(now) {
			continue
		}
		end := start.Add(duration)
		if overlapsAny(start, end, bookings) {
			continue
		}
		resp.Slots = append(resp.Slots, start.In(loc).Format("15:04"))
	}
	return resp, nil
}

// overlapsAny uses half-open intervals: touching endpoints do not conflict.
func overlapsAny(start, end time.Time, bookings []models.Booking) bool {
	for _, b := range bookings {
		if start.Before(b.AppointmentEndTime) && end.After(b.AppointmentStartTime) {
			return true
		}
	}
	return false
}

// atClock places a wall-clock "HH:MM[:SS]" on day in day's location.
func atClock(day time.Time, clock string) (time.Time, error) {
	m := clockPrefix.FindStringSubmatch(clock)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidHours, clock)
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if h > 24 || mins > 59 || sec > 59 || (h == 24 && (mins > 0 || sec > 0)) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidHours, clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, mins, sec, 0, day.Location()), nil
}
