package models

import "time"

const BookingStatusConfirmed = "confirmed"

// Booking is a single appointment for one client and one treatment.
type Booking struct {
	ID                   string    `bson:"id" json:"id"`
	OrganisationID       string    `bson:"organisation_id" json:"organisation_id"`
	ClientID             string    `bson:"clientId" json:"clientId"`
	TreatmentID          string    `bson:"treatmentId" json:"treatmentId"`
	StaffID              string    `bson:"staffId,omitempty" json:"staffId,omitempty"`
	AppointmentStartTime time.Time `bson:"appointmentStartTime" json:"appointmentStartTime"`
	AppointmentEndTime   time.Time `bson:"appointmentEndTime" json:"appointmentEndTime"` // start + treatment duration
	Message              string    `bson:"message,omitempty" json:"message,omitempty"`
	Status               string    `bson:"status" json:"status"`
	CreatedAt            time.Time `bson:"created_at" json:"created_at"`
}

// BookingInput is the public booking form.
type BookingInput struct {
	Name                 string    `json:"name" binding:"required,min=1,max=200"`
	Email                string    `json:"email" binding:"required,email"`
	Phone                string    `json:"phone" binding:"omitempty,max=40"`
	Message              string    `json:"message" binding:"omitempty,max=2000"`
	TreatmentID          string    `json:"treatmentId" binding:"required"`
	StaffID              string    `json:"staffId" binding:"omitempty"`
	AppointmentStartTime time.Time `json:"appointmentStartTime" binding:"required"`
}

type BookingUpdate struct {
	Message *string `json:"message" binding:"omitempty,max=2000"`
	StaffID *string `json:"staffId"`
}

// BookingConfirmation is the body returned after a booking is created.
type BookingConfirmation struct {
	ID                   string    `json:"id"`
	Message              string    `json:"message,omitempty"`
	Client               *Client   `json:"client"`
	TreatmentID          string    `json:"treatmentId"`
	AppointmentStartTime time.Time `json:"appointmentStartTime"`
	AppointmentEndTime   time.Time `json:"appointmentEndTime"`
	NewClient            bool      `json:"newClient"`
	StaffID              string    `json:"staffId,omitempty"`
}

// AvailabilityResponse lists open start times for a treatment on one day.
type AvailabilityResponse struct {
	Date              string   `json:"date"`
	TreatmentID       string   `json:"treatmentId"`
	DurationInMinutes int      `json:"durationInMinutes"`
	Slots             []string `json:"slots"`
}
