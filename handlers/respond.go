package handlers

import (
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// fail writes err as an error envelope from inside a JSONHandler.
func fail(c *gin.Context, err error) (int, any) {
	utils.RespondError(c, err)
	return c.Writer.Status(), nil
}
