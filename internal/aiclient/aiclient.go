package aiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"reelarchitect/models"
)

const (
	// DefaultModel is the model the generateContent URL is templated with.
	DefaultModel   = "gemini-2.5-flash-preview-09-2025"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTimeout = 120 * time.Second
)

// Generator turns a title and description into a structured reel script.
// Implementations make a single upstream call and never retry.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error)
}

// Config holds what every backend needs to reach the generative API.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Logger  *logrus.Logger
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultModel
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	return c
}

// envelope mirrors the parts of a generateContent response we read.
// Text is a pointer so an absent field can be told apart from an empty one.
type envelope struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// extractText pulls candidates[0].content.parts[0].text out of a response body.
func extractText(body []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", malformedEnvelope()
	}
	if len(env.Candidates) == 0 || env.Candidates[0].Content == nil {
		return "", malformedEnvelope()
	}
	parts := env.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return "", malformedEnvelope()
	}
	return *parts[0].Text, nil
}

// ParseResult decodes the JSON text embedded in the response. The original
// json error is kept as the cause of the returned InvalidJSON error.
func ParseResult(text string) (*models.GenerationResult, error) {
	var result models.GenerationResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, invalidJSON(err)
	}
	if result.Segments == nil {
		result.Segments = []models.ScriptSegment{}
	}
	return &result, nil
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error)

func (f GeneratorFunc) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	return f(ctx, req)
}

// Backend names accepted by NewGenerator.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// NewGenerator builds the Generator for the named backend.
func NewGenerator(ctx context.Context, backend string, cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendREST:
		return NewRESTClient(cfg), nil
	case BackendSDK:
		client, err := NewSDKClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported generator backend: %s", backend)
	}
}
