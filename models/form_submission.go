package models

import "time"

// FormSubmission is a contact-form message left on a salon's website.
type FormSubmission struct {
	ID             string    `bson:"id" json:"id"`
	OrganisationID string    `bson:"organisation_id" json:"organisation_id"`
	ClientID       string    `bson:"clientId" json:"clientId"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Message        string    `bson:"message" json:"message"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

type FormSubmissionInput struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=40"`
	Message string `json:"message" binding:"required,min=1,max=5000"`
}
