package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bella-chat/backend/internal/constants"
	"bella-chat/backend/internal/local"
	"bella-chat/backend/pkg/config"
	"bella-chat/backend/pkg/logger"
)

type batchOptions struct {
	model      string
	prompt     string
	output     string
	runtimeURL string
}

func newRootCmd(cfg *config.Config, newGenerator func(url string) local.Generator) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "bella-batch",
		Short: "Run one completion on a local model and append the timed answer to a file",
		Long: `bella-batch sends a single prompt to a local Ollama-compatible runtime
(context 512, batch 128, unlimited output, temperature 0.1, top-p 0.9),
prints the elapsed time and the answer, and appends both to the output file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, newGenerator(opts.runtimeURL))
		},
	}

	cmd.Flags().StringVar(&opts.model, "model", cfg.LocalModelPath, "Model artifact to load")
	cmd.Flags().StringVar(&opts.prompt, "prompt", constants.LocalDefaultPrompt, "Prompt to complete")
	cmd.Flags().StringVar(&opts.output, "output", cfg.LocalOutputFile, "File the timed answer is appended to")
	cmd.Flags().StringVar(&opts.runtimeURL, "runtime-url", cfg.LocalRuntimeURL, "Base URL of the local runtime")
	return cmd
}

func runBatch(cmd *cobra.Command, opts *batchOptions, gen local.Generator) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runner := local.NewRunner(gen).WithLogger(logger.Named("batch"))
	result, err := runner.Run(ctx, local.BatchConfig{
		Model:      opts.model,
		Prompt:     opts.prompt,
		OutputFile: opts.output,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", result.TimeLine())
	fmt.Fprintln(out, result.Text)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	newGenerator := func(url string) local.Generator { return local.NewClient(url) }
	if err := newRootCmd(cfg, newGenerator).Execute(); err != nil {
		logger.Get().Error("Batch run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
