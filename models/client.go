package models

import "time"

// Client is a customer of a salon. Email is stored lowercased.
type Client struct {
	ID             string    `bson:"id" json:"id"`
	OrganisationID string    `bson:"organisation_id" json:"organisation_id"`
	Name           string    `bson:"name" json:"name"`
	Email          *string   `bson:"email" json:"email"`
	PhoneNumber    *string   `bson:"phoneNumber" json:"phoneNumber"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

type ClientInput struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,max=40"`
}

// ClientUpdate carries the fields a PATCH may change; nil means untouched.
type ClientUpdate struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=40"`
}
