package models

import "time"

type Treatment struct {
	ID                string    `bson:"id" json:"id"`
	OrganisationID    string    `bson:"organisation_id" json:"organisation_id"`
	CategoryID        string    `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	Name              string    `bson:"name" json:"name"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	Price             float64   `bson:"price" json:"price"`
	DurationInMinutes int       `bson:"durationInMinutes" json:"durationInMinutes"`
	ShowOnWeb         bool      `bson:"showOnWeb" json:"showOnWeb"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

type TreatmentInput struct {
	CategoryID        string  `json:"categoryId"`
	Name              string  `json:"name" binding:"required,min=1,max=200"`
	Description       string  `json:"description" binding:"omitempty,max=2000"`
	Price             float64 `json:"price" binding:"gte=0"`
	DurationInMinutes int     `json:"durationInMinutes" binding:"required,min=5,max=600"`
	ShowOnWeb         bool    `json:"showOnWeb"`
}

// TreatmentCategory groups treatments on the public menu.
type TreatmentCategory struct {
	ID             string    `bson:"id" json:"id"`
	OrganisationID string    `bson:"organisation_id" json:"organisation_id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

type CategoryInput struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}
