// Package web serves the chat and analytics views over HTTP with gin.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bella-chat/backend/internal/metrics"
	"bella-chat/backend/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the router
type Options struct {
	Controller *ui.Controller
	// Metrics is optional; when set /metrics is served and requests are counted
	Metrics *metrics.Collector
	Logger  *zap.Logger
	// SecureCookies marks the session cookie Secure (production behind TLS)
	SecureCookies bool
}

// NewRouter builds the gin engine with every route registered
func NewRouter(opts Options) (*gin.Engine, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	if opts.Metrics != nil {
		router.Use(opts.Metrics.GinMiddleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handlers{ctrl: opts.Controller, logger: log}

	views := router.Group("/", sessionMiddleware(opts.Controller, opts.SecureCookies))
	{
		views.GET("/", h.chatPage)
		views.GET("/analytics", h.analyticsPage)
	}

	api := router.Group("/api", sessionMiddleware(opts.Controller, opts.SecureCookies))
	{
		api.POST("/token", h.enterToken)
		api.POST("/model", h.selectModel)
		api.POST("/chat", h.chat)
		api.POST("/clear", h.clear)
		api.GET("/messages", h.messages)
		api.GET("/notifications", h.notifications)
		api.GET("/analytics/graph", h.graph)
		api.GET("/analytics/sentiment", h.sentiment)
		api.POST("/analytics/export", h.export)
	}

	return router, nil
}
