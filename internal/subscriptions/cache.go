package subscriptions

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
)

type cacheKey struct{}

// requestCache memoizes tier lookups for the lifetime of one request.
type requestCache struct {
	mu     sync.Mutex
	levels map[string]Level
}

// WithRequestCache returns a context carrying an empty tier cache.
func WithRequestCache(ctx context.Context) context.Context {
	if cacheFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, cacheKey{}, &requestCache{levels: make(map[string]Level)})
}

func cacheFrom(ctx context.Context) *requestCache {
	c, _ := ctx.Value(cacheKey{}).(*requestCache)
	return c
}

func (c *requestCache) get(userID string) (Level, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.levels[userID]
	return l, ok
}

func (c *requestCache) put(userID string, level Level) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.levels[userID] = level
	c.mu.Unlock()
}

func (c *requestCache) forget(userID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.levels, userID)
	c.mu.Unlock()
}

// RequestCache installs a per-request tier cache on the request context.
func RequestCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestCache(c.Request.Context()))
		c.Next()
	}
}
