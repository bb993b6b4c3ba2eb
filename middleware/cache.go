package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"salonbook/services/cache"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ctxSkipCache = "cache.skip"

// JSONHandler returns the status and body to send instead of writing them.
// A nil body means the handler already responded (for example through
// utils.RespondError) and nothing is cached.
type JSONHandler func(c *gin.Context) (int, any)

// ResponseStore is the part of the cache layer the response cache uses.
type ResponseStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	SetAsync(key string, value []byte, ttl time.Duration)
}

type CacheOptions struct {
	TTL     time.Duration               // default 300s
	Methods []string                    // default GET
	Key     func(c *gin.Context) string // default method + path + sorted query
}

// SkipCache stops the current response from being stored.
func SkipCache(c *gin.Context) {
	c.Set(ctxSkipCache, true)
}

// CacheResponse serves h through the response cache. Hits are written
// verbatim; misses run h and store its body unless it is an error.
func CacheResponse(store ResponseStore, opts CacheOptions, h JSONHandler) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = 300 * time.Second
	}
	if len(opts.Methods) == 0 {
		opts.Methods = []string{http.MethodGet}
	}
	if opts.Key == nil {
		opts.Key = func(c *gin.Context) string {
			return cache.RequestKey(c.Request.Method, c.Request.URL.Path, c.Request.URL.Query())
		}
	}

	return func(c *gin.Context) {
		if !methodAllowed(c.Request.Method, opts.Methods) {
			writeJSON(c, h)
			return
		}

		key := opts.Key(c)
		if raw, ok := store.Get(c.Request.Context(), key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", raw)
			return
		}

		c.Header("X-Cache", "MISS")
		status, raw := writeJSON(c, h)
		if raw != nil && cacheable(c, status, raw) {
			store.SetAsync(key, raw, opts.TTL)
		}
	}
}

// writeJSON runs h and writes its body, returning what was sent.
func writeJSON(c *gin.Context, h JSONHandler) (int, []byte) {
	status, body := h(c)
	if body == nil || c.Writer.Written() {
		return status, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		utils.GetLogger().Error("response not serialisable", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Error: "Internal Server Error"})
		return http.StatusInternalServerError, nil
	}
	c.Data(status, gin.MIMEJSON+"; charset=utf-8", raw)
	return status, raw
}

func cacheable(c *gin.Context, status int, raw []byte) bool {
	if status >= http.StatusBadRequest || c.GetBool(ctxSkipCache) {
		return false
	}
	return !hasErrorField(raw)
}

func hasErrorField(raw []byte) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	_, ok := obj["error"]
	return ok
}

func methodAllowed(method string, allowed []string) bool {
	for _, m := range allowed {
		if m == method {
			return true
		}
	}
	return false
}

// IDsViaAllOptions configures CacheIDsViaAll.
type IDsViaAllOptions struct {
	Key    func(c *gin.Context) string // where the id list is cached
	AllKey func(c *gin.Context) string // where the full list response is cached
	TTL    time.Duration
	// IDField names the id property of each item. Default "id".
	IDField string
	// AllItemsField and ItemsField name the array holding items in the
	// full list body and in h's body.
	AllItemsField string
	ItemsField    string
	// Respond shapes a hit into the same body h would have produced.
	Respond func(c *gin.Context, items []json.RawMessage) any
}

// CacheIDsViaAll caches only the ids of a filtered list and rebuilds hits
// from the cached full list. When the full list is not cached (or empty)
// the live handler runs, so an empty resolution never hides data.
func CacheIDsViaAll(store ResponseStore, opts IDsViaAllOptions, h JSONHandler) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = 120 * time.Second
	}
	if opts.IDField == "" {
		opts.IDField = "id"
	}

	return func(c *gin.Context) {
		key := opts.Key(c)
		ctx := c.Request.Context()

		if raw, ok := store.Get(ctx, key); ok {
			var ids []string
			if err := json.Unmarshal(raw, &ids); err == nil {
				if allRaw, ok := store.Get(ctx, opts.AllKey(c)); ok {
					items := itemsOf(allRaw, opts.AllItemsField)
					if len(items) > 0 {
						c.Header("X-Cache", "HIT")
						c.JSON(http.StatusOK, opts.Respond(c, selectByID(items, ids, opts.IDField)))
						return
					}
				}
			}
		}

		c.Header("X-Cache", "MISS")
		status, raw := writeJSON(c, h)
		if raw == nil || !cacheable(c, status, raw) {
			return
		}
		ids := make([]string, 0)
		for _, item := range itemsOf(raw, opts.ItemsField) {
			if id, ok := idOf(item, opts.IDField); ok {
				ids = append(ids, id)
			}
		}
		if idsRaw, err := json.Marshal(ids); err == nil {
			store.SetAsync(key, idsRaw, opts.TTL)
		}
	}
}

func itemsOf(raw []byte, field string) []json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(obj[field], &items); err != nil {
		return nil
	}
	return items
}

func idOf(item json.RawMessage, field string) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil {
		return "", false
	}
	var id string
	if err := json.Unmarshal(obj[field], &id); err != nil {
		return "", false
	}
	return id, true
}

// selectByID keeps the order of ids.
func selectByID(items []json.RawMessage, ids []string, field string) []json.RawMessage {
	byID := make(map[string]json.RawMessage, len(items))
	for _, item := range items {
		if id, ok := idOf(item, field); ok {
			byID[id] = item
		}
	}
	out := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out
}
