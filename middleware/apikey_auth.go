package middleware

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"salonbook/services/apikey"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxOrganisationID = "organisation_id"
	ctxAPIKeyID       = "apiKeyId"

	challenge        = `Bearer realm="api"`
	invalidChallenge = `Bearer realm="api", error="invalid_token"`
)

var authorizationScheme = regexp.MustCompile(`(?i)^(Bearer|ApiKey)\s+(.+)$`)

// Authenticator resolves a raw credential to a tenant.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*apikey.Identity, error)
}

type APIKeyAuthOptions struct {
	HeaderName string // default x-api-key
	QueryParam string // default api_key
	// Paths starting with one of these skip authentication.
	ExcludePrefixes []string
	ExcludePatterns []*regexp.Regexp
}

// APIKeyAuthMiddleware authenticates the request's API key and stores the
// owning organisation on the context.
func APIKeyAuthMiddleware(auth Authenticator, opts APIKeyAuthOptions) gin.HandlerFunc {
	if opts.HeaderName == "" {
		opts.HeaderName = "x-api-key"
	}
	if opts.QueryParam == "" {
		opts.QueryParam = "api_key"
	}

	return func(c *gin.Context) {
		if excluded(c.Request.URL.Path, opts) {
			c.Next()
			return
		}

		raw := credential(c, opts)
		if raw == "" {
			c.Header("WWW-Authenticate", challenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), raw)
		switch {
		case err == nil:
		case errors.Is(err, apikey.ErrOrganisationNotFound):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Organization not found for this API key"})
			return
		case errors.Is(err, apikey.ErrInvalidFormat),
			errors.Is(err, apikey.ErrKeyNotFound),
			errors.Is(err, apikey.ErrInvalidKey),
			errors.Is(err, apikey.ErrHashVerify):
			utils.GetLogger().Debug("api key rejected", zap.Error(err), zap.String("ip", getClientIP(c)))
			c.Header("WWW-Authenticate", invalidChallenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		default:
			utils.GetLogger().Error("api key lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate organization"})
			return
		}

		c.Set(ctxOrganisationID, identity.OrganisationID)
		c.Set(ctxAPIKeyID, identity.KeyID)
		c.Next()
	}
}

// OrganisationID returns the tenant resolved by APIKeyAuthMiddleware.
func OrganisationID(c *gin.Context) string {
	return c.GetString(ctxOrganisationID)
}

func credential(c *gin.Context, opts APIKeyAuthOptions) string {
	if v := strings.TrimSpace(c.GetHeader(opts.HeaderName)); v != "" {
		return v
	}
	if m := authorizationScheme.FindStringSubmatch(c.GetHeader("Authorization")); m != nil {
		return strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(c.Query(opts.QueryParam))
}

func excluded(path string, opts APIKeyAuthOptions) bool {
	for _, prefix := range opts.ExcludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, re := range opts.ExcludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
