// Package local runs one completion against a local Ollama-compatible
// runtime and records the timed result.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "bella-chat/backend/pkg/errors"
	"bella-chat/backend/pkg/logger"
)

// Options contains model parameters for inference
type Options struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`     // context window size
	NumBatch    int     `json:"num_batch,omitempty"`   // prompt processing batch size
	NumPredict  int     `json:"num_predict,omitempty"` // -1 generates until end of sequence
}

// GenerateRequest is the request body for /api/generate
type GenerateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Raw     bool     `json:"raw,omitempty"`
	Options *Options `json:"options,omitempty"`
}

// GenerateResponse is the response from /api/generate
type GenerateResponse struct {
	Model         string `json:"model"`
	Response      string `json:"response"`
	Done          bool   `json:"done"`
	DoneReason    string `json:"done_reason,omitempty"`
	EvalCount     int    `json:"eval_count,omitempty"`
	TotalDuration int64  `json:"total_duration,omitempty"` // nanoseconds
}

type runtimeError struct {
	Error string `json:"error"`
}

// Client talks to the local runtime
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client. There is no request timeout: an unlimited
// completion on a CPU can take minutes, so callers bound it with ctx.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger.Named("local"),
	}
}

// Generate sends a non-streaming completion request and returns the whole text
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	req.Stream = false

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Sending local completion request",
		zap.String("model", req.Model),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewLocalRuntimeFailed(0, "request timed out", err)
		}
		return nil, apperrors.NewLocalRuntimeFailed(0, "local runtime is not reachable at "+c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewLocalRuntimeFailed(resp.StatusCode, "model not found: "+req.Model, nil)
	}

	if resp.StatusCode != http.StatusOK {
		var rtErr runtimeError
		if err := json.NewDecoder(resp.Body).Decode(&rtErr); err == nil && rtErr.Error != "" {
			return nil, apperrors.NewLocalRuntimeFailed(resp.StatusCode, rtErr.Error, nil)
		}
		return nil, apperrors.NewLocalRuntimeFailed(resp.StatusCode, "generate request failed: "+resp.Status, nil)
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.NewLocalRuntimeFailed(resp.StatusCode, "failed to decode response", err)
	}

	c.logger.Debug("Local completion received",
		zap.Int("eval_count", result.EvalCount),
		zap.Duration("runtime_duration", time.Duration(result.TotalDuration)),
	)
	return &result, nil
}
