package local

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"bella-chat/backend/internal/constants"
)

// Generator is the part of Client a batch run needs
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// BatchConfig describes one batch run
type BatchConfig struct {
	Model      string
	Prompt     string
	OutputFile string
}

// BatchResult is the timed completion of a batch run
type BatchResult struct {
	Text     string
	Duration time.Duration
}

// TimeLine renders the duration the way it is printed and recorded
func (r BatchResult) TimeLine() string {
	return "Time: " + strconv.FormatFloat(r.Duration.Seconds(), 'f', -1, 64)
}

// Runner executes batch runs
type Runner struct {
	gen    Generator
	now    func() time.Time
	logger *zap.Logger
}

// NewRunner creates a runner over gen
func NewRunner(gen Generator) *Runner {
	return &Runner{gen: gen, now: time.Now, logger: zap.NewNop()}
}

// WithLogger sets the runner's logger
func (r *Runner) WithLogger(log *zap.Logger) *Runner {
	r.logger = log
	return r
}

// Run sends the prompt with the fixed local parameters, times the call and
// appends the time line followed by the raw text to the output file. Nothing
// separates consecutive runs in the file.
func (r *Runner) Run(ctx context.Context, cfg BatchConfig) (*BatchResult, error) {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = constants.LocalDefaultPrompt
	}

	req := GenerateRequest{
		Model:  cfg.Model,
		Prompt: prompt,
		Options: &Options{
			Temperature: constants.LocalTemperature,
			TopP:        constants.LocalTopP,
			NumCtx:      constants.LocalContextLength,
			NumBatch:    constants.LocalBatchSize,
			NumPredict:  constants.LocalUnlimitedTokens,
		},
	}

	start := r.now()
	resp, err := r.gen.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("local completion failed: %w", err)
	}
	result := &BatchResult{Text: resp.Response, Duration: r.now().Sub(start)}

	r.logger.Info("Local completion finished",
		zap.String("model", cfg.Model),
		zap.Duration("duration", result.Duration),
		zap.Int("text_length", len(result.Text)),
	)

	if cfg.OutputFile != "" {
		if err := appendResult(cfg.OutputFile, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func appendResult(path string, result *BatchResult) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(result.TimeLine() + result.Text); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
