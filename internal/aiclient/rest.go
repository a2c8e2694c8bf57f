package aiclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"reelarchitect/internal/prompt"
	"reelarchitect/models"
)

// RESTClient calls the generateContent endpoint over plain HTTPS.
type RESTClient struct {
	http   *resty.Client
	cfg    Config
	logger *logrus.Logger
}

// NewRESTClient creates a RESTClient. The API key travels as the "key" query parameter.
func NewRESTClient(cfg Config) *RESTClient {
	cfg = cfg.withDefaults()

	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &RESTClient{http: c, cfg: cfg, logger: cfg.Logger}
}

// Generate sends one generateContent request and validates the response in order:
// transport, envelope, embedded JSON.
func (c *RESTClient) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	payload, ok := prompt.Build(req)
	if !ok {
		return nil, ErrEmptyRequest
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("model", c.cfg.Model).
		SetQueryParam("key", c.cfg.APIKey).
		SetBody(payload.Request()).
		Post("/models/{model}:generateContent")
	if err != nil {
		c.logger.WithError(err).WithField("model", c.cfg.Model).Warn("generateContent request failed")
		return nil, transportError(0, err)
	}
	if !resp.IsSuccess() {
		c.logger.WithFields(logrus.Fields{
			"model":       c.cfg.Model,
			"status_code": resp.StatusCode(),
		}).Warn("generateContent returned non-2xx status")
		return nil, transportError(resp.StatusCode(), nil)
	}

	text, err := extractText(resp.Body())
	if err != nil {
		return nil, err
	}
	result, err := ParseResult(text)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"model":               c.cfg.Model,
		"instruction_version": prompt.InstructionVersion,
		"segments":            len(result.Segments),
		"latency_ms":          time.Since(start).Milliseconds(),
	}).Info("Script generated")
	return result, nil
}
