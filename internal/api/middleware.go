package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"forkify/internal/logger"
)

const (
	// SessionCookie carries the client's session id.
	SessionCookie = "forkify_session"
	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"
	// DefaultCookieMaxAge is used when Session is given no positive max age.
	DefaultCookieMaxAge = 365 * 24 * time.Hour

	sessionKey = "session_id"
)

// RequestLogger attaches a request id and a request-scoped logger to the
// request context and logs each request when it completes.
func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		ctx = logger.WithLogger(ctx, base)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		log := logger.FromContext(ctx)
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request failed", attrs...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request rejected", attrs...)
		default:
			log.Info("request handled", attrs...)
		}
	}
}

// Session reads the session cookie, issuing a new id when it is missing or
// malformed. The cookie is re-sent on every response so its maxAge counts
// from the last visit; the id keys the persisted likes, so it must outlive
// the in-memory session.
func Session(maxAge time.Duration) gin.HandlerFunc {
	if maxAge <= 0 {
		maxAge = DefaultCookieMaxAge
	}
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(maxAge.Seconds()), "/", "", false, true)
		c.Set(sessionKey, id)
		c.Next()
	}
}
