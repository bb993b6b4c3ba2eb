package handlers

import (
	"net/http"

	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Mongo utils.Pinger
	Redis utils.Pinger
}

// Health handles GET /health. Redis being down degrades the service but
// does not fail it; without Mongo nothing works.
func (h *HealthHandler) Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	if status.CheckedAt.IsZero() {
		status = utils.CheckHealth(c.Request.Context(), h.Mongo, h.Redis)
	}
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status.Status(),
		"mongo":     status.Mongo,
		"redis":     status.Redis,
		"checkedAt": status.CheckedAt,
	})
}
