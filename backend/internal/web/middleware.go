package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bella-chat/backend/internal/state"
	"bella-chat/backend/internal/ui"
)

const (
	// SessionCookie binds a browser to its chat session
	SessionCookie = "bella_session"

	sessionKey       = "session"
	sessionCookieAge = 7 * 24 * 60 * 60
)

// sessionMiddleware resolves the session cookie, starting a new session for
// unknown or missing ids
func sessionMiddleware(ctrl *ui.Controller, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		sess, created := ctrl.Session(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sess.ID, sessionCookieAge, "/", "", secure, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *state.Session {
	return c.MustGet(sessionKey).(*state.Session)
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
