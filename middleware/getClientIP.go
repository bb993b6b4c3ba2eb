package middleware

import (
	"net"
	"strings"

	"salonbook/config"

	"github.com/gin-gonic/gin"
)

// forwardedHeaders are consulted in order when no proxy header is configured.
var forwardedHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// getClientIP identifies the caller for rate limiting and audit logs.
// CLIENT_IP_HEADER names the single header a trusted proxy sets (for
// example CF-Connecting-IP); when present it wins over the generic headers.
func getClientIP(c *gin.Context) string {
	if name := config.AppConfig.ClientIPHeader; name != "" {
		if ip := firstAddr(c.GetHeader(name)); ip != "" {
			return ip
		}
	}
	for _, name := range forwardedHeaders {
		if ip := firstAddr(c.GetHeader(name)); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}

// firstAddr returns the left-most entry of a comma-separated address list.
func firstAddr(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}
