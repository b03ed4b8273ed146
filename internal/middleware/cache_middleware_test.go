package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newCachedRouter(cache *ResponseCache, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/courses", cache.Middleware(), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"items": []string{"go"}})
	})
	router.GET("/missing", cache.Middleware(), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestResponseCacheServesHits(t *testing.T) {
	hits := 0
	cache := NewResponseCache(time.Minute)
	router := newCachedRouter(cache, &hits)

	first := doGet(router, "/courses")
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}
	if first.Header().Get("X-Cache") == "HIT" {
		t.Error("first request should not be a cache hit")
	}

	second := doGet(router, "/courses")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Error("second request should be served from cache")
	}
	if second.Body.String() != first.Body.String() {
		t.Error("cached body differs from original")
	}
	if hits != 1 {
		t.Errorf("handler ran %d times, want 1", hits)
	}
}

func TestResponseCacheExpiry(t *testing.T) {
	hits := 0
	cache := NewResponseCache(10 * time.Millisecond)
	router := newCachedRouter(cache, &hits)

	doGet(router, "/courses")
	time.Sleep(20 * time.Millisecond)
	res := doGet(router, "/courses")

	if res.Header().Get("X-Cache") == "HIT" {
		t.Error("expired entry should not be served")
	}
	if hits != 2 {
		t.Errorf("handler ran %d times, want 2", hits)
	}
}

func TestResponseCacheSkipsNonOK(t *testing.T) {
	hits := 0
	cache := NewResponseCache(time.Minute)
	router := newCachedRouter(cache, &hits)

	doGet(router, "/missing")
	doGet(router, "/missing")

	if hits != 2 {
		t.Errorf("handler ran %d times, want 2 (404s are not cached)", hits)
	}
}

func TestResponseCacheInvalidate(t *testing.T) {
	hits := 0
	cache := NewResponseCache(time.Minute)
	router := newCachedRouter(cache, &hits)

	doGet(router, "/courses")
	if cache.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cache.Len())
	}

	cache.Invalidate()
	if cache.Len() != 0 {
		t.Errorf("Len() after Invalidate() = %d, want 0", cache.Len())
	}

	res := doGet(router, "/courses")
	if res.Header().Get("X-Cache") == "HIT" {
		t.Error("invalidated entry should not be served")
	}
	if hits != 2 {
		t.Errorf("handler ran %d times, want 2", hits)
	}
}

func TestResponseCacheSweep(t *testing.T) {
	hits := 0
	cache := NewResponseCache(10 * time.Millisecond)
	router := newCachedRouter(cache, &hits)

	doGet(router, "/courses")
	time.Sleep(20 * time.Millisecond)

	if removed := cache.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d entries, want 1", removed)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after sweep = %d, want 0", cache.Len())
	}
}
