package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bella-chat/backend/internal/ui"
	apperrors "bella-chat/backend/pkg/errors"
)

type handlers struct {
	ctrl   *ui.Controller
	logger *zap.Logger
}

// page is the data handed to the HTML templates
type page struct {
	Page      string
	Chat      ui.ChatView
	Analytics ui.AnalyticsView
}

func (h *handlers) chatPage(c *gin.Context) {
	sess := currentSession(c)
	c.HTML(http.StatusOK, "chat.html", page{
		Page: "chat",
		Chat: h.ctrl.ChatView(sess),
	})
}

func (h *handlers) analyticsPage(c *gin.Context) {
	sess := currentSession(c)
	c.HTML(http.StatusOK, "analytics.html", page{
		Page:      "analytics",
		Chat:      h.ctrl.ChatView(sess),
		Analytics: h.ctrl.RenderAnalytics(sess),
	})
}

func (h *handlers) enterToken(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := h.ctrl.OnTokenEntered(currentSession(c), req.Token)
	c.JSON(http.StatusOK, status)
}

func (h *handlers) selectModel(c *gin.Context) {
	var req struct {
		Model string `json:"model" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ctrl.OnModelSelected(currentSession(c), req.Model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": req.Model})
}

// chat streams the reply as server-sent events: one "fragment" per chunk, then
// "done" with the full content or "error" with the text shown to the user
func (h *handlers) chat(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	streaming := false
	startStream := func() {
		if streaming {
			return
		}
		streaming = true
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)
	}

	result, err := h.ctrl.OnSubmit(c.Request.Context(), currentSession(c), req.Message, func(fragment string) {
		startStream()
		c.SSEvent("fragment", fragment)
		c.Writer.Flush()
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmptyPrompt):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrCredentialMissing):
			c.JSON(http.StatusForbidden, gin.H{"error": ui.TextChatDisabled})
		case apperrors.IsErrorType(err, apperrors.ErrorTypeSession):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to run chat turn", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		}
		return
	}

	startStream()
	reply := result.Reply
	if reply.Failed() {
		c.SSEvent("error", gin.H{"message": reply.UserMessage()})
	} else {
		c.SSEvent("done", gin.H{
			"content":     reply.Content,
			"interrupted": reply.Interrupted != nil,
		})
	}
	c.Writer.Flush()
}

func (h *handlers) clear(c *gin.Context) {
	sess := currentSession(c)
	h.ctrl.OnClear(sess)
	c.JSON(http.StatusOK, gin.H{"messages": h.ctrl.ChatView(sess).Messages})
}

func (h *handlers) messages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.ctrl.ChatView(currentSession(c)).Messages})
}

func (h *handlers) notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.ctrl.ChatView(currentSession(c)).Notifications})
}

func (h *handlers) graph(c *gin.Context) {
	view := h.ctrl.RenderAnalytics(currentSession(c))
	c.JSON(http.StatusOK, gin.H{
		"nodes":      view.Graph.Nodes,
		"edges":      view.Graph.Edges,
		"node_count": view.NodeCount,
		"edge_count": view.EdgeCount,
	})
}

func (h *handlers) sentiment(c *gin.Context) {
	view := h.ctrl.RenderAnalytics(currentSession(c))
	c.JSON(http.StatusOK, gin.H{"trend": view.Trend})
}

func (h *handlers) export(c *gin.Context) {
	result, err := h.ctrl.OnExport(c.Request.Context(), currentSession(c))
	if errors.Is(err, apperrors.ErrGraphExportDisabled) {
		// not configured is a normal state, the page shows the messages
		c.JSON(http.StatusOK, result)
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    err.Error(),
			"messages": result.Messages,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
