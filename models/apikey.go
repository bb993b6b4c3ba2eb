package models

import "time"

// APIKey is the stored half of an issued credential. Only the Argon2id
// hash of the full credential is persisted.
type APIKey struct {
	KeyID          string    `bson:"keyId" json:"keyId"`
	HashedKey      string    `bson:"hashedKey" json:"-"`
	OrganisationID string    `bson:"organisation_id" json:"organisation_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

type APIKeyCreateInput struct {
	OrganisationID string `json:"organisation_id" binding:"required"`
}

type APIKeyVerifyInput struct {
	APIKey string `json:"apiKey" binding:"required"`
}
