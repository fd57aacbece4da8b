package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type cacheWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func cacheKey(c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.Method + ":" + c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("resp:%x", sum)
}

// ResponseCache serves GET responses from redis when available. Only 200 JSON
// bodies are cached; a nil client disables caching entirely.
func ResponseCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)

		if body, err := rdb.Get(c.Request.Context(), key).Bytes(); err == nil && len(body) > 0 {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		cw := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() == http.StatusOK && cw.buf.Len() > 0 {
			// Detached context: the request may already be done.
			_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), ttl).Err()
		}
	}
}
