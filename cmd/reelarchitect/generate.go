package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reelarchitect/config"
	"reelarchitect/internal/aiclient"
	"reelarchitect/models"
)

func newGenerateCmd() *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one script and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			genCfg := cfg.GeneratorConfig()
			genCfg.Logger = config.NewLogger(cfg.LogLevel, cfg.LogFormat)
			generator, err := aiclient.NewGenerator(cmd.Context(), cfg.GeneratorBackend, genCfg)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), generator, models.GenerationRequest{Title: title, Description: description}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Video title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "What the video is about (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func runGenerate(ctx context.Context, generator aiclient.Generator, req models.GenerationRequest, out io.Writer) error {
	if !req.Ready() {
		return aiclient.ErrEmptyRequest
	}
	result, err := generator.Generate(ctx, req)
	if err != nil {
		var genErr *aiclient.GenerationError
		if errors.As(err, &genErr) {
			return fmt.Errorf("generation failed (%s): %w", genErr.Kind, err)
		}
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
