package booking

import "errors"

var (
	ErrClientLookup      = errors.New("failed to query client")
	ErrClientCreate      = errors.New("failed to create client")
	ErrConflictCheck     = errors.New("failed to verify booking availability")
	ErrSlotTaken         = errors.New("appointment start time is already booked")
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrTreatmentLookup   = errors.New("failed to load treatment duration")
	ErrBookingCreate     = errors.New("failed to create booking")
	ErrEmailFailed       = errors.New("failed to send email")
)
