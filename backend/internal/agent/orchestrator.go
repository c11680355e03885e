package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bella-chat/backend/internal/adapter"
	"bella-chat/backend/internal/constants"
	"bella-chat/backend/internal/state"
	apperrors "bella-chat/backend/pkg/errors"
	"bella-chat/backend/pkg/logger"
)

// Generator produces completions for a formatted prompt
type Generator interface {
	Generate(ctx context.Context, apiKey string, req adapter.Request) *adapter.Generation
}

// Observer receives the outcome of every inference call
type Observer interface {
	ObserveInference(model, outcome string, elapsed time.Duration)
}

// Inference outcomes reported to the Observer
const (
	OutcomeSuccess     = "success"
	OutcomeFailed      = "failed"
	OutcomeInterrupted = "interrupted"
)

// Orchestrator runs one chat turn: transcript bookkeeping around a single
// blocking call to the hosted model
type Orchestrator struct {
	llm      Generator
	params   adapter.Params
	observer Observer
	logger   *zap.Logger
}

// NewOrchestrator creates a new chat orchestrator
func NewOrchestrator(llm Generator, params adapter.Params) *Orchestrator {
	return &Orchestrator{
		llm:    llm,
		params: params,
		logger: logger.Named("agent"),
	}
}

// SetObserver attaches an inference observer (metrics)
func (o *Orchestrator) SetObserver(obs Observer) {
	o.observer = obs
}

// Reply is the result of a turn
type Reply struct {
	// Content is the assistant text appended to the transcript
	Content string
	// Generated is false when the transcript already ended with the assistant
	Generated bool
	// Failure is set when the call could not start; nothing was appended
	Failure error
	// Interrupted is set when the stream broke; the partial Content was kept
	Interrupted error
}

// Failed reports whether the model call failed up front
func (r Reply) Failed() bool {
	return r.Failure != nil
}

// UserMessage is the text shown to the user for a failed call
func (r Reply) UserMessage() string {
	if r.Failure == nil {
		return ""
	}
	return fmt.Sprintf("Error during API call: %v", r.Failure)
}

// Submit appends a user prompt and generates the assistant reply. Every
// fragment is passed to sink as it arrives. The caller holds the session lock.
func (o *Orchestrator) Submit(ctx context.Context, sess *state.Session, prompt string, sink func(string)) (Reply, error) {
	if strings.TrimSpace(prompt) == "" {
		return Reply{}, apperrors.ErrEmptyPrompt
	}
	if !sess.HasCredential() {
		return Reply{}, apperrors.ErrCredentialMissing
	}
	if err := sess.Append(state.RoleUser, prompt); err != nil {
		return Reply{}, fmt.Errorf("failed to append prompt: %w", err)
	}
	return o.Respond(ctx, sess, sink)
}

// Respond generates an assistant reply when the transcript ends with a user
// message. On failure the transcript keeps ending with that user message.
func (o *Orchestrator) Respond(ctx context.Context, sess *state.Session, sink func(string)) (Reply, error) {
	last, ok := sess.Last()
	if !ok || last.Role == state.RoleAssistant {
		return Reply{}, nil
	}
	if !sess.HasCredential() {
		return Reply{}, apperrors.ErrCredentialMissing
	}

	version, ok := constants.ModelVersions[sess.Model()]
	if !ok {
		return Reply{}, apperrors.NewUnknownModel(sess.Model())
	}

	req := adapter.Request{
		Model:  version,
		Prompt: BuildPrompt(sess.Messages(), last.Content),
		Params: o.params,
	}

	o.logger.Debug("Starting chat turn",
		zap.String("session_id", sess.ID),
		zap.String("model", sess.Model()),
		zap.Int("transcript_length", sess.Len()),
	)

	start := time.Now()
	gen := o.llm.Generate(ctx, sess.Credential(), req)
	if err := gen.Err(); err != nil {
		o.observe(sess.Model(), OutcomeFailed, start)
		o.logger.Warn("Chat turn failed",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return Reply{Generated: true, Failure: err}, nil
	}

	var sb strings.Builder
	var interrupted error
	for fragment, err := range gen.Fragments() {
		if err != nil {
			interrupted = err
			break
		}
		sb.WriteString(fragment)
		if sink != nil {
			sink(fragment)
		}
	}

	content := sb.String()
	if err := sess.Append(state.RoleAssistant, content); err != nil {
		return Reply{}, fmt.Errorf("failed to append reply: %w", err)
	}

	if interrupted != nil {
		o.observe(sess.Model(), OutcomeInterrupted, start)
		o.logger.Warn("Chat turn stream interrupted",
			zap.String("session_id", sess.ID),
			zap.Int("content_length", len(content)),
			zap.Error(interrupted),
		)
	} else {
		o.observe(sess.Model(), OutcomeSuccess, start)
	}

	o.logger.Info("Chat turn completed",
		zap.String("session_id", sess.ID),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("content_length", len(content)),
	)

	return Reply{Content: content, Generated: true, Interrupted: interrupted}, nil
}

func (o *Orchestrator) observe(model, outcome string, start time.Time) {
	if o.observer != nil {
		o.observer.ObserveInference(model, outcome, time.Since(start))
	}
}
