package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// peekJSON decodes the request body into dst and puts the bytes back so the
// handler can bind it again. An empty or malformed body leaves dst untouched.
func peekJSON(c *gin.Context, dst any) {
	if c.Request.Body == nil {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
