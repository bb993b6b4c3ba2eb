package middleware

import (
	"net/http"
	"strings"

	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthAdminMiddleware guards operator routes with an HS256 admin token.
func JWTAuthAdminMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ValidateAdminToken(secret, tokenString)
		if err != nil {
			utils.GetLogger().Warn("admin token rejected", zap.Error(err), zap.String("ip", getClientIP(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("adminSubject", claims.Subject)
		c.Set("isAdmin", true)
		c.Next()
	}
}
