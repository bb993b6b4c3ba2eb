package models

// ReminderPayload is carried by the booking reminder task.
type ReminderPayload struct {
	BookingID      string `json:"bookingId"`
	OrganisationID string `json:"organisationId"`
}
