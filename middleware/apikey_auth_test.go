package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"salonbook/services/apikey"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuthenticator struct {
	identity *apikey.Identity
	err      error
	seen     string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, raw string) (*apikey.Identity, error) {
	s.seen = raw
	return s.identity, s.err
}

func authRouter(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(APIKeyAuthMiddleware(auth, APIKeyAuthOptions{
		ExcludePrefixes: []string{"/health"},
		ExcludePatterns: []*regexp.Regexp{regexp.MustCompile(`^/api/public/`)},
	}))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"org": OrganisationID(c)})
	}
	r.GET("/health", handler)
	r.GET("/api/public/ping", handler)
	r.GET("/api/bookings", handler)
	return r
}

func TestAPIKeyAuth_Credentials(t *testing.T) {
	const key = "ak_abcdefgh12345678_secret"

	testCases := []struct {
		name   string
		target string
		header map[string]string
	}{
		{name: "custom_header", target: "/api/bookings", header: map[string]string{"x-api-key": key}},
		{name: "bearer", target: "/api/bookings", header: map[string]string{"Authorization": "Bearer " + key}},
		{name: "apikey_scheme", target: "/api/bookings", header: map[string]string{"Authorization": "ApiKey " + key}},
		{name: "query_param", target: "/api/bookings?api_key=" + key},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &stubAuthenticator{identity: &apikey.Identity{KeyID: "abcdefgh12345678", OrganisationID: "org-1"}}
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			authRouter(auth).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, key, auth.seen)
			assert.JSONEq(t, `{"org":"org-1"}`, w.Body.String())
		})
	}
}

func TestAPIKeyAuth_Rejections(t *testing.T) {
	testCases := []struct {
		name          string
		withKey       bool
		err           error
		expectedCode  int
		expectedBody  string
		expectedChall string
	}{
		{
			name:          "missing_key",
			expectedCode:  http.StatusUnauthorized,
			expectedBody:  `{"error":"Unauthorized"}`,
			expectedChall: `Bearer realm="api"`,
		},
		{
			name:          "bad_format",
			withKey:       true,
			err:           apikey.ErrInvalidFormat,
			expectedCode:  http.StatusUnauthorized,
			expectedBody:  `{"error":"Unauthorized"}`,
			expectedChall: `Bearer realm="api", error="invalid_token"`,
		},
		{
			name:          "unknown_key",
			withKey:       true,
			err:           apikey.ErrKeyNotFound,
			expectedCode:  http.StatusUnauthorized,
			expectedBody:  `{"error":"Unauthorized"}`,
			expectedChall: `Bearer realm="api", error="invalid_token"`,
		},
		{
			name:          "wrong_secret",
			withKey:       true,
			err:           apikey.ErrInvalidKey,
			expectedCode:  http.StatusUnauthorized,
			expectedBody:  `{"error":"Unauthorized"}`,
			expectedChall: `Bearer realm="api", error="invalid_token"`,
		},
		{
			name:         "no_organisation",
			withKey:      true,
			err:          apikey.ErrOrganisationNotFound,
			expectedCode: http.StatusForbidden,
			expectedBody: `{"error":"Organization not found for this API key"}`,
		},
		{
			name:         "store_failure",
			withKey:      true,
			err:          errors.New("mongo down"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to validate organization"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &stubAuthenticator{err: tc.err}
			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tc.withKey {
				req.Header.Set("x-api-key", "ak_abcdefgh12345678_secret")
			}
			w := httptest.NewRecorder()
			authRouter(auth).ServeHTTP(w, req)

			assert.Equal(t, tc.expectedCode, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
			assert.Equal(t, tc.expectedChall, w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAPIKeyAuth_ExcludedPaths(t *testing.T) {
	auth := &stubAuthenticator{err: errors.New("must not be called")}
	r := authRouter(auth)

	for _, path := range []string{"/health", "/api/public/ping"} {
		w := perform(r, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.Empty(t, auth.seen)
}
