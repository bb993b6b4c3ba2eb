package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const duplicateKeyPrefix = "dup:booking:"

type submissionFingerprint struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	TreatmentID string `json:"treatmentId"`
	Message     string `json:"message"`
}

// Fingerprint hashes the fields that identify a repeated submission.
func (f submissionFingerprint) Fingerprint() string {
	norm := submissionFingerprint{
		Name:        strings.ToLower(strings.TrimSpace(f.Name)),
		Email:       strings.ToLower(strings.TrimSpace(f.Email)),
		TreatmentID: strings.TrimSpace(f.TreatmentID),
		Message:     strings.TrimSpace(f.Message),
	}
	if len(norm.Message) > 256 {
		norm.Message = norm.Message[:256]
	}
	raw, _ := json.Marshal(norm)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// DuplicateGuardMiddleware rejects the same booking payload submitted again
// within ttl. Requests pass when Redis is unavailable.
func DuplicateGuardMiddleware(conn RedisProvider, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body submissionFingerprint
		peekJSON(c, &body)
		key := duplicateKeyPrefix + body.Fingerprint()

		client, err := conn.Client(c.Request.Context())
		if err != nil {
			c.Next()
			return
		}
		ok, err := client.SetNX(c.Request.Context(), key, "1", ttl).Result()
		if err != nil {
			utils.GetLogger().Warn("duplicate guard unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Duplicate submission detected"})
			return
		}
		c.Next()
	}
}
