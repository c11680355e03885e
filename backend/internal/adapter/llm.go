package adapter

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"bella-chat/backend/internal/constants"
	apperrors "bella-chat/backend/pkg/errors"
	"bella-chat/backend/pkg/logger"
)

// LLMAdapter streams text completions from the hosted model through an
// OpenAI-compatible gateway (LiteLLM in front of Replicate)
type LLMAdapter struct {
	baseURL string
	logger  *zap.Logger
}

// NewLLMAdapter creates a new LLM adapter for the gateway at baseURL
func NewLLMAdapter(baseURL string) *LLMAdapter {
	return &LLMAdapter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.Named("adapter"),
	}
}

// GatewayModel maps a hosted model version to the gateway's model name
func GatewayModel(version string) string {
	if strings.HasPrefix(version, constants.GatewayModelPrefix) {
		return version
	}
	return constants.GatewayModelPrefix + version
}

// Generate opens a completion stream with the session's bearer token. Any
// failure to start the call comes back as a failed Generation; nothing is retried.
func (a *LLMAdapter) Generate(ctx context.Context, apiKey string, req Request) *Generation {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = a.baseURL + "/v1"
	client := openai.NewClientWithConfig(config)

	model := GatewayModel(req.Model)
	completionReq := openai.CompletionRequest{
		Model:       model,
		Prompt:      req.Prompt,
		Temperature: float32(req.Params.Temperature),
		TopP:        float32(req.Params.TopP),
		MaxTokens:   req.Params.MaxLength,
		// 1.0 is the neutral repetition penalty; the gateway takes the offset
		FrequencyPenalty: float32(req.Params.RepetitionPenalty - 1),
		Stream:           true,
	}

	stream, err := client.CreateCompletionStream(ctx, completionReq)
	if err != nil {
		a.logger.Error("Completion request failed",
			zap.String("model", model),
			zap.Error(err),
		)
		return Failed(apperrors.NewInferenceFailed(model, err))
	}

	a.logger.Debug("Completion stream opened",
		zap.String("model", model),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	fragments := func(yield func(string, error) bool) {
		count := 0
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				a.logger.Debug("Completion stream finished", zap.Int("fragments", count))
				return
			}
			if err != nil {
				a.logger.Warn("Completion stream interrupted",
					zap.Int("fragments", count),
					zap.Error(err),
				)
				yield("", apperrors.NewInferenceStream(count, err))
				return
			}
			for _, choice := range resp.Choices {
				if choice.Text == "" {
					continue
				}
				count++
				if !yield(choice.Text, nil) {
					return
				}
			}
		}
	}

	return Succeeded(fragments, func() { stream.Close() })
}
