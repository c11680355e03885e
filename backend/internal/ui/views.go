// Package ui holds the event API behind the browser views. It knows nothing
// about HTTP: the web package maps requests onto these handlers.
package ui

import (
	"bella-chat/backend/internal/agent"
	"bella-chat/backend/internal/analytics"
	"bella-chat/backend/internal/graph"
	"bella-chat/backend/internal/keywords"
	"bella-chat/backend/internal/state"
)

// User-visible texts
const (
	TextKeyProvided     = "API key already provided!"
	TextInvalidToken    = "Please enter a valid API token!"
	TextTokenAccepted   = "Proceed to entering your prompt message!"
	TextChatDisabled    = "Please enter a valid API token to use the chat functionality."
	TextExportStarted   = "Sending data to HIFIS..."
	TextExportDisabled  = "HIFIS export is not configured"
	textExportCompleted = "Sent %d words, %d word pairs and %d sentiment days to HIFIS."
)

// CredentialStatus describes the sidebar credential widget
type CredentialStatus struct {
	HasCredential bool                   `json:"has_credential"`
	Source        state.CredentialSource `json:"source,omitempty"`
	// AskForToken is false when the environment already supplied one
	AskForToken bool   `json:"ask_for_token"`
	Message     string `json:"message"`
	Warning     bool   `json:"warning"`
}

// ChatView is everything the chat page renders
type ChatView struct {
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Credential    CredentialStatus        `json:"credential"`
	Models        []string                `json:"models"`
	SelectedModel string                  `json:"selected_model"`
	Messages      []state.Message         `json:"messages"`
	Notifications []keywords.Notification `json:"notifications"`
	ChatEnabled   bool                    `json:"chat_enabled"`
	DisabledText  string                  `json:"disabled_text,omitempty"`
}

// AnalyticsView is everything the analytics page renders
type AnalyticsView struct {
	Graph         analytics.GraphSnapshot    `json:"graph"`
	NodeCount     int                        `json:"node_count"`
	EdgeCount     int                        `json:"edge_count"`
	TopEdges      []analytics.Edge           `json:"top_edges"`
	Trend         []analytics.DailySentiment `json:"trend"`
	ExportEnabled bool                       `json:"export_enabled"`
}

// SubmitResult is the outcome of one chat submission
type SubmitResult struct {
	Reply    agent.Reply
	Detected []keywords.Category
}

// ExportResult is the outcome of the "Send Data to HIFIS" action
type ExportResult struct {
	Published bool                 `json:"published"`
	Messages  []string             `json:"messages"`
	Summary   *graph.ExportSummary `json:"summary,omitempty"`
}
