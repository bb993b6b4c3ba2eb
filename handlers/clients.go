package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"salonbook/database/repository"
	clientRepo "salonbook/database/repository/client"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/cache"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClientHandler struct {
	Repo  clientRepo.ClientRepository
	Cache CacheStore
}

// CreateClient handles POST /api/clients.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var in models.ClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	ctx := c.Request.Context()
	orgID := middleware.OrganisationID(c)

	now := time.Now().UTC()
	client := &models.Client{
		ID:             uuid.NewString(),
		OrganisationID: orgID,
		Name:           strings.TrimSpace(in.Name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		existing, err := h.Repo.FindByEmail(ctx, orgID, email)
		if err != nil {
			utils.RespondError(c, utils.NewInternalError("Failed to lookup client by email", err))
			return
		}
		if existing != nil {
			utils.RespondError(c, utils.NewConflictError("Client already exists"))
			return
		}
		client.Email = &email
	}
	if phone := strings.TrimSpace(in.PhoneNumber); phone != "" {
		client.PhoneNumber = &phone
	}

	err := h.Repo.Create(ctx, client)
	if errors.Is(err, repository.ErrDuplicate) {
		utils.RespondError(c, utils.NewConflictError("Client already exists"))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to create client", err))
		return
	}
	h.Cache.Invalidate(cache.ClientChanged)
	getLogger(c).Info("client created", zap.String("clientId", client.ID))
	c.JSON(http.StatusCreated, client)
}

// ListClients handles GET /api/clients.
func (h *ClientHandler) ListClients(c *gin.Context) (int, any) {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, err)
	}
	items, total, err := h.Repo.List(c.Request.Context(), middleware.OrganisationID(c), page)
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to list clients", err))
	}
	return http.StatusOK, models.Page[models.Client]{Data: items, Meta: models.NewPageMeta(total, page)}
}

// GetClient handles GET /api/clients/:id.
func (h *ClientHandler) GetClient(c *gin.Context) (int, any) {
	client, err := h.Repo.GetByID(c.Request.Context(), middleware.OrganisationID(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, utils.NewNotFoundError("Client not found"))
	}
	if err != nil {
		return fail(c, utils.NewInternalError("Failed to load client", err))
	}
	return http.StatusOK, client
}

// UpdateClient handles PATCH /api/clients/:id.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var in models.ClientUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
	}

	updated, err := h.Repo.Update(c.Request.Context(), middleware.OrganisationID(c), c.Param("id"), in)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondError(c, utils.NewNotFoundError("Client not found"))
		return
	case errors.Is(err, repository.ErrDuplicate):
		utils.RespondError(c, utils.NewConflictError("Client already exists"))
		return
	case err != nil:
		utils.RespondError(c, utils.NewInternalError("Failed to update client", err))
		return
	}
	h.Cache.Invalidate(cache.ClientChanged)
	c.JSON(http.StatusOK, updated)
}

// DeleteClient handles DELETE /api/clients/:id.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	err := h.Repo.Delete(c.Request.Context(), middleware.OrganisationID(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondError(c, utils.NewNotFoundError("Client not found"))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to delete client", err))
		return
	}
	h.Cache.Invalidate(cache.ClientChanged)
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}
