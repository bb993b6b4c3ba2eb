package models

import "time"

type Staff struct {
	ID             string    `bson:"id" json:"id"`
	OrganisationID string    `bson:"organisation_id" json:"organisation_id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email,omitempty" json:"email,omitempty"`
	Role           string    `bson:"role,omitempty" json:"role,omitempty"`
	Active         bool      `bson:"active" json:"active"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

type StaffInput struct {
	Name   string `json:"name" binding:"required,min=1,max=200"`
	Email  string `json:"email" binding:"omitempty,email"`
	Role   string `json:"role" binding:"omitempty,max=100"`
	Active *bool  `json:"active"`
}
