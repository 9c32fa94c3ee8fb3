package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

type cacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseCache caches successful GET responses in memory for the given TTL.
// Mutations go through POST/PUT/DELETE and bypass the cache entirely, so a
// stale read can last at most one TTL.
func ResponseCache(ttl, cleanupInterval time.Duration) gin.HandlerFunc {
	store := gocache.New(ttl, cleanupInterval)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if cached, ok := store.Get(key); ok {
			resp := cached.(cachedResponse)
			c.Header("X-Cache", "HIT")
			c.Data(resp.status, resp.contentType, resp.body)
			c.Abort()
			return
		}

		writer := &cacheWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			store.SetDefault(key, cachedResponse{
				status:      c.Writer.Status(),
				contentType: c.Writer.Header().Get("Content-Type"),
				body:        writer.body.Bytes(),
			})
		}
	}
}
