package models

// OpeningHours holds one weekday's trading hours for a tenant.
// Day follows time.Weekday (0 = Sunday). OpensAt and ClosesAt are
// wall-clock "HH:MM[:SS]" strings in the tenant's zone.
type OpeningHours struct {
	OrganisationID string `bson:"organisation_id" json:"organisation_id"`
	Day            int    `bson:"Day" json:"Day"`
	OpensAt        string `bson:"opens_at" json:"opens_at"`
	ClosesAt       string `bson:"closes_at" json:"closes_at"`
}

type OpeningHoursInput struct {
	OpensAt  string `json:"opens_at" binding:"required,clock"`
	ClosesAt string `json:"closes_at" binding:"required,clock"`
}
