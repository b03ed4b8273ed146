package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/pkg/metrics"
)

// cachedResponse is one stored GET response.
type cachedResponse struct {
	status      int
	contentType string
	body        []byte
	expiresAt   time.Time
}

// ResponseCache is a small in-memory TTL cache for read endpoints.
// Entries are keyed by the full request URI and served verbatim until
// they expire; a background sweep trims dead entries.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cachedResponse
	ttl     time.Duration
}

// NewResponseCache creates a response cache with the given TTL.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cachedResponse),
		ttl:     ttl,
	}
}

// Middleware serves cached GET responses and captures fresh ones.
// Non-GET requests pass straight through.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()

		rc.mu.RLock()
		entry, ok := rc.entries[key]
		rc.mu.RUnlock()
		if ok && time.Now().Before(entry.expiresAt) {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			c.Header("X-Cache", "HIT")
			c.Data(entry.status, entry.contentType, entry.body)
			c.Abort()
			return
		}
		metrics.CacheRequests.WithLabelValues("miss").Inc()

		writer := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		// Only successful responses are cacheable
		if writer.Status() != http.StatusOK {
			return
		}

		rc.mu.Lock()
		rc.entries[key] = cachedResponse{
			status:      writer.Status(),
			contentType: writer.Header().Get("Content-Type"),
			body:        writer.body.Bytes(),
			expiresAt:   time.Now().Add(rc.ttl),
		}
		rc.mu.Unlock()
	}
}

// Invalidate drops every cached entry. Called after writes that change
// catalog data.
func (rc *ResponseCache) Invalidate() {
	rc.mu.Lock()
	rc.entries = make(map[string]cachedResponse)
	rc.mu.Unlock()
}

// Sweep removes expired entries and returns how many were dropped.
func (rc *ResponseCache) Sweep() int {
	now := time.Now()
	rc.mu.Lock()
	defer rc.mu.Unlock()

	removed := 0
	for key, entry := range rc.entries {
		if now.After(entry.expiresAt) {
			delete(rc.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the current number of cached entries.
func (rc *ResponseCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.entries)
}

// captureWriter tees the response body so it can be cached.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
