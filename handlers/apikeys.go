package handlers

import (
	"context"
	"errors"
	"net/http"

	"salonbook/models"
	"salonbook/services/apikey"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// KeyManager is the API key administration surface; *apikey.Service
// implements it.
type KeyManager interface {
	Create(ctx context.Context, orgID string) (string, *models.APIKey, error)
	Authenticate(ctx context.Context, raw string) (*apikey.Identity, error)
	Revoke(ctx context.Context, keyID string) error
}

type APIKeyHandler struct {
	Keys KeyManager
}

// CreateAPIKey handles POST /api/admin/apikeys. The plaintext key is only
// ever returned here.
func (h *APIKeyHandler) CreateAPIKey(c *gin.Context) {
	var in models.APIKeyCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	full, record, err := h.Keys.Create(c.Request.Context(), in.OrganisationID)
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to create API key", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":         "API key created. Store it now, it will not be shown again.",
		"apiKey":          full,
		"keyId":           record.KeyID,
		"organisation_id": record.OrganisationID,
	})
}

// VerifyAPIKey handles POST /api/admin/apikeys/verify.
func (h *APIKeyHandler) VerifyAPIKey(c *gin.Context) {
	var in models.APIKeyVerifyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}

	identity, err := h.Keys.Authenticate(c.Request.Context(), in.APIKey)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"valid": true, "keyId": identity.KeyID, "organisation_id": identity.OrganisationID})
	case errors.Is(err, apikey.ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "invalid_format"})
	case errors.Is(err, apikey.ErrKeyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"valid": false, "error": "not_found"})
	case errors.Is(err, apikey.ErrInvalidKey), errors.Is(err, apikey.ErrHashVerify):
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "invalid_key"})
	case errors.Is(err, apikey.ErrOrganisationNotFound):
		c.JSON(http.StatusForbidden, gin.H{"valid": false, "error": "organisation_not_found"})
	default:
		utils.RespondError(c, utils.NewInternalError("Failed to verify API key", err))
	}
}

// RevokeAPIKey handles DELETE /api/admin/apikeys/:keyId.
func (h *APIKeyHandler) RevokeAPIKey(c *gin.Context) {
	err := h.Keys.Revoke(c.Request.Context(), c.Param("keyId"))
	if errors.Is(err, apikey.ErrKeyNotFound) {
		utils.RespondError(c, utils.NewNotFoundError("API key not found"))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to revoke API key", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "API key revoked"})
}
