package ui

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bella-chat/backend/internal/agent"
	"bella-chat/backend/internal/analytics"
	"bella-chat/backend/internal/constants"
	"bella-chat/backend/internal/graph"
	"bella-chat/backend/internal/keywords"
	"bella-chat/backend/internal/state"
	apperrors "bella-chat/backend/pkg/errors"
	"bella-chat/backend/pkg/logger"
)

// topEdgeCount bounds the edge table on the analytics page
const topEdgeCount = 25

// ChatRunner runs a chat turn
type ChatRunner interface {
	Submit(ctx context.Context, sess *state.Session, prompt string, sink func(string)) (agent.Reply, error)
}

// Exporter publishes an analytics snapshot
type Exporter interface {
	PublishSnapshot(ctx context.Context, sessionID string, snapshot analytics.GraphSnapshot, trend []analytics.DailySentiment) (*graph.ExportSummary, error)
}

// Recorder receives analytics counters
type Recorder interface {
	ObserveKeywords(categories []keywords.Category)
	ObserveExport(status string)
}

// Controller implements the UI events. Every handler holds the session lock
// for its whole duration.
type Controller struct {
	store      *state.Store
	chat       ChatRunner
	aggregator *analytics.Aggregator
	exporter   Exporter
	recorder   Recorder
	logger     *zap.Logger
}

// NewController creates a controller without export or metrics
func NewController(store *state.Store, chat ChatRunner, aggregator *analytics.Aggregator) *Controller {
	return &Controller{
		store:      store,
		chat:       chat,
		aggregator: aggregator,
		logger:     logger.Named("ui"),
	}
}

// SetExporter enables the HIFIS export
func (c *Controller) SetExporter(exp Exporter) {
	c.exporter = exp
}

// SetRecorder attaches metrics
func (c *Controller) SetRecorder(rec Recorder) {
	c.recorder = rec
}

// Session resolves a browser session id, creating a session when it is unknown
func (c *Controller) Session(id string) (*state.Session, bool) {
	return c.store.GetOrCreate(id)
}

// ChatView renders the chat page state
func (c *Controller) ChatView(sess *state.Session) ChatView {
	sess.Lock()
	defer sess.Unlock()
	return c.chatView(sess)
}

func (c *Controller) chatView(sess *state.Session) ChatView {
	messages := sess.Messages()
	view := ChatView{
		Title:         constants.AssistantName,
		Description:   constants.AppDescription,
		Credential:    credentialStatus(sess, false),
		Models:        append([]string(nil), constants.ModelNames...),
		SelectedModel: sess.Model(),
		Messages:      messages,
		Notifications: keywords.Scan(messages),
		ChatEnabled:   sess.HasCredential(),
	}
	if view.Notifications == nil {
		view.Notifications = []keywords.Notification{}
	}
	if !view.ChatEnabled {
		view.DisabledText = TextChatDisabled
	}
	return view
}

func credentialStatus(sess *state.Session, rejected bool) CredentialStatus {
	status := CredentialStatus{
		HasCredential: sess.HasCredential(),
		Source:        sess.CredentialSource(),
		AskForToken:   sess.CredentialSource() != state.CredentialEnvironment,
	}
	switch {
	case sess.CredentialSource() == state.CredentialEnvironment:
		status.Message = TextKeyProvided
	case rejected || !sess.HasCredential():
		status.Message = TextInvalidToken
		status.Warning = true
	default:
		status.Message = TextTokenAccepted
	}
	return status
}

// OnTokenEntered validates a token typed into the sidebar. An environment
// token cannot be replaced.
func (c *Controller) OnTokenEntered(sess *state.Session, token string) CredentialStatus {
	sess.Lock()
	defer sess.Unlock()

	if sess.CredentialSource() == state.CredentialEnvironment {
		return credentialStatus(sess, false)
	}
	if err := sess.SetCredential(token, state.CredentialEntered); err != nil {
		c.logger.Debug("API token rejected",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return credentialStatus(sess, true)
	}
	c.logger.Info("API token accepted", zap.String("session_id", sess.ID))
	return credentialStatus(sess, false)
}

// OnModelSelected switches the catalog model for later turns
func (c *Controller) OnModelSelected(sess *state.Session, name string) error {
	if _, ok := constants.ModelVersions[name]; !ok {
		return apperrors.NewUnknownModel(name)
	}
	sess.Lock()
	defer sess.Unlock()
	sess.SetModel(name)
	c.logger.Debug("Model selected",
		zap.String("session_id", sess.ID),
		zap.String("model", name),
	)
	return nil
}

// OnClear resets the transcript to the greeting
func (c *Controller) OnClear(sess *state.Session) {
	sess.Lock()
	defer sess.Unlock()
	sess.Clear()
	c.logger.Info("Chat history cleared", zap.String("session_id", sess.ID))
}

// OnSubmit runs a chat turn. Fragments reach sink while the session is locked.
func (c *Controller) OnSubmit(ctx context.Context, sess *state.Session, prompt string, sink func(string)) (SubmitResult, error) {
	sess.Lock()
	defer sess.Unlock()

	reply, err := c.chat.Submit(ctx, sess, prompt, sink)
	if err != nil {
		return SubmitResult{}, err
	}

	detected := keywords.Detect(prompt)
	if c.recorder != nil {
		c.recorder.ObserveKeywords(detected)
	}
	return SubmitResult{Reply: reply, Detected: detected}, nil
}

// RenderAnalytics rebuilds the graph and trend from the current transcript
func (c *Controller) RenderAnalytics(sess *state.Session) AnalyticsView {
	sess.Lock()
	messages := sess.Messages()
	sess.Unlock()

	g := analytics.BuildCooccurrence(messages)
	return AnalyticsView{
		Graph:         g.Snapshot(),
		NodeCount:     g.NodeCount(),
		EdgeCount:     g.EdgeCount(),
		TopEdges:      g.TopEdges(topEdgeCount),
		Trend:         c.aggregator.Trend(messages),
		ExportEnabled: c.exporter != nil,
	}
}

// OnExport sends the current analytics to HIFIS. Without an exporter it
// returns the user-facing messages together with ErrGraphExportDisabled.
func (c *Controller) OnExport(ctx context.Context, sess *state.Session) (ExportResult, error) {
	c.logger.Info(TextExportStarted, zap.String("session_id", sess.ID))

	if c.exporter == nil {
		c.observeExport("disabled")
		return ExportResult{
			Messages: []string{TextExportStarted, TextExportDisabled},
		}, apperrors.ErrGraphExportDisabled
	}

	view := c.RenderAnalytics(sess)

	start := time.Now()
	summary, err := c.exporter.PublishSnapshot(ctx, sess.ID, view.Graph, view.Trend)
	if err != nil {
		c.observeExport("failed")
		c.logger.Error("HIFIS export failed",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return ExportResult{Messages: []string{TextExportStarted}}, fmt.Errorf("failed to export analytics: %w", err)
	}

	c.observeExport("published")
	c.logger.Info("HIFIS export completed",
		zap.String("session_id", sess.ID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ExportResult{
		Published: true,
		Messages: []string{
			TextExportStarted,
			fmt.Sprintf(textExportCompleted, summary.Words, summary.Edges, summary.Days),
		},
		Summary: summary,
	}, nil
}

func (c *Controller) observeExport(status string) {
	if c.recorder != nil {
		c.recorder.ObserveExport(status)
	}
}
