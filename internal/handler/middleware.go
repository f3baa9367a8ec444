package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const authUserKey = "auth_user_id"

type AccessVerifier interface {
	VerifyAccess(token string) (int64, error)
}

// ResolveIdentity reads the access credential from the Authorization header,
// falling back to the access cookie, and verifies it. It has no side effects.
func ResolveIdentity(verifier AccessVerifier, r *http.Request) (int64, error) {
	token := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if token == "" {
		if cookie, err := r.Cookie(service.AccessCookieName); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		return 0, apperr.Unauthenticated("missing access token")
	}
	return verifier.VerifyAccess(token)
}

func AuthMiddleware(verifier AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		userID, err := ResolveIdentity(verifier, c.Request)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(authUserKey, userID)
		c.Next()
	}
}

// GetAuthUserID returns the resolved caller, or 0 outside AuthMiddleware.
func GetAuthUserID(c *gin.Context) int64 {
	if value, ok := c.Get(authUserKey); ok {
		if id, ok := value.(int64); ok {
			return id
		}
	}
	return 0
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestLogger logs one line per request. Credentials in headers are never
// written out.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ce := log.Check(zap.DebugLevel, "incoming request"); ce != nil {
			headers, _ := json.Marshal(scrubHeaders(c.Request.Header))
			ce.Write(
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("origin", c.GetHeader("Origin")),
				zap.ByteString("hdr", headers),
			)
		}

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("client_ip", c.ClientIP()),
		}
		for _, e := range c.Errors {
			log.Error("handler error", append(fields, zap.Error(e.Err))...)
		}
		if c.IsAborted() && len(c.Errors) == 0 {
			log.Warn("request aborted", fields...)
			return
		}
		log.Info("request completed", fields...)
	}
}

func scrubHeaders(h http.Header) http.Header {
	clone := h.Clone()
	for k := range clone {
		lower := strings.ToLower(k)
		if strings.Contains(lower, "authorization") || strings.Contains(lower, "cookie") {
			clone[k] = []string{"[redacted]"}
		}
	}
	return clone
}

// visitor is shared by every request from one IP; last holds unix nanos.
type visitor struct {
	limiter *rate.Limiter
	last    atomic.Int64
}

func (v *visitor) touch(now time.Time) { v.last.Store(now.UnixNano()) }

func (v *visitor) idle(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, v.last.Load()))
}

// DefaultVisitorTTL applies when RateLimitPerIP is given a non-positive ttl.
const DefaultVisitorTTL = time.Hour

// RateLimitPerIP throttles each client IP with its own token bucket. Buckets
// live in a bounded LRU and idle ones are swept every ttl until ctx ends.
func RateLimitPerIP(ctx context.Context, rps float64, burst, cacheSize int, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultVisitorTTL
	}
	visitors, err := lru.New[string, *visitor](cacheSize)
	if err != nil {
		visitors, _ = lru.New[string, *visitor](1024)
	}

	go func() {
		ticker := time.NewTicker(ttl)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, key := range visitors.Keys() {
					if v, ok := visitors.Peek(key); ok && v.idle(time.Now()) > ttl {
						visitors.Remove(key)
					}
				}
			}
		}
	}()

	return func(c *gin.Context) {
		host := c.ClientIP()

		now := time.Now()
		v, ok := visitors.Get(host)
		if !ok {
			fresh := &visitor{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			fresh.touch(now)
			// a concurrent first request from the same host may have won
			if prev, found, _ := visitors.PeekOrAdd(host, fresh); found {
				v = prev
			} else {
				v = fresh
			}
		}
		v.touch(now)

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				StatusCode: http.StatusTooManyRequests,
				Message:    "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
