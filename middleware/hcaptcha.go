package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const DefaultHCaptchaVerifyURL = "https://hcaptcha.com/siteverify"

type HCaptchaOptions struct {
	Secret    string
	VerifyURL string
	// BodyField is the JSON field carrying the token; default hcaptcha_token.
	BodyField  string
	HTTPClient *http.Client
}

type hcaptchaResult struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

var warnMissingSecret sync.Once

// HCaptchaMiddleware verifies the caller's hCaptcha token before the handler runs.
func HCaptchaMiddleware(opts HCaptchaOptions) gin.HandlerFunc {
	if opts.VerifyURL == "" {
		opts.VerifyURL = DefaultHCaptchaVerifyURL
	}
	if opts.BodyField == "" {
		opts.BodyField = "hcaptcha_token"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Secret == "" {
		warnMissingSecret.Do(func() {
			utils.GetLogger().Warn("HCAPTCHA_SECRET_KEY not set, captcha-protected routes will fail")
		})
	}

	return func(c *gin.Context) {
		if opts.Secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Captcha misconfigured"})
			return
		}

		token := captchaToken(c, opts.BodyField)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Captcha required"})
			return
		}

		form := url.Values{}
		form.Set("secret", opts.Secret)
		form.Set("response", token)
		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, opts.VerifyURL, strings.NewReader(form.Encode()))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Captcha misconfigured"})
			return
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := opts.HTTPClient.Do(req)
		if err != nil {
			utils.GetLogger().Error("hcaptcha verify failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Captcha verification unavailable"})
			return
		}
		defer resp.Body.Close()

		var result hcaptchaResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			utils.GetLogger().Error("hcaptcha returned unreadable response", zap.Int("status", resp.StatusCode), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Captcha verification unavailable"})
			return
		}
		if !result.Success {
			codes := result.ErrorCodes
			if codes == nil {
				codes = []string{}
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Captcha failed", "codes": codes})
			return
		}
		c.Next()
	}
}

func captchaToken(c *gin.Context, field string) string {
	body := map[string]any{}
	peekJSON(c, &body)
	for _, k := range []string{field, "h-captcha-response"} {
		if s, ok := body[k].(string); ok && s != "" {
			return s
		}
	}
	if t := c.GetHeader("h-captcha-response"); t != "" {
		return t
	}
	return c.GetHeader("x-hcaptcha-token")
}
