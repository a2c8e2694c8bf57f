package aiclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"reelarchitect/internal/prompt"
	"reelarchitect/models"
)

// SDKClient generates scripts through the Google GenAI SDK. It follows the same
// error contract as RESTClient. The SDK cannot tell an absent text field from
// an empty one, so a first part carrying no payload at all is read as empty
// text (InvalidJSON) and a part carrying non-text data is a malformed envelope.
type SDKClient struct {
	client *genai.Client
	cfg    Config
	logger *logrus.Logger
}

// NewSDKClient creates an SDKClient against the Gemini API backend.
func NewSDKClient(ctx context.Context, cfg Config) (*SDKClient, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	httpOptions, err := sdkHTTPOptions(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &SDKClient{client: client, cfg: cfg, logger: cfg.Logger}, nil
}

// Generate sends one GenerateContent call with a JSON response directive.
func (c *SDKClient) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	payload, ok := prompt.Build(req)
	if !ok {
		return nil, ErrEmptyRequest
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx,
		c.cfg.Model,
		genai.Text(payload.User),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(payload.System, genai.RoleUser),
			ResponseMIMEType:  prompt.ResponseMIMEType,
		},
	)
	if err != nil {
		c.logger.WithError(err).WithField("model", c.cfg.Model).Warn("GenAI GenerateContent failed")
		return nil, transportError(apiStatus(err), err)
	}

	text, err := sdkText(resp)
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
	}).Info("Script generated via GenAI SDK")
	return result, nil
}

var apiVersionSegment = regexp.MustCompile(`^v\d+((alpha|beta)\d*)?$`)

// sdkHTTPOptions splits a REST-style base URL such as
// "https://generativelanguage.googleapis.com/v1beta" into the host part and
// the API version, which the SDK joins itself.
func sdkHTTPOptions(baseURL string) (genai.HTTPOptions, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return genai.HTTPOptions{}, fmt.Errorf("invalid GenAI base URL %q", baseURL)
	}
	path := strings.Trim(u.Path, "/")
	var version string
	if i := strings.LastIndex(path, "/"); apiVersionSegment.MatchString(path[i+1:]) {
		version = path[i+1:]
		path = path[:max(i, 0)]
	}
	u.Path = "/" + path
	if path != "" {
		u.Path += "/"
	}
	return genai.HTTPOptions{BaseURL: u.String(), APIVersion: version}, nil
}

func sdkText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", malformedEnvelope()
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", malformedEnvelope()
	}
	part := content.Parts[0]
	if part.Text == "" && (part.InlineData != nil || part.FileData != nil ||
		part.FunctionCall != nil || part.FunctionResponse != nil ||
		part.ExecutableCode != nil || part.CodeExecutionResult != nil) {
		return "", malformedEnvelope()
	}
	return part.Text, nil
}

// apiStatus extracts the HTTP status code from a GenAI API error, or 0.
func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}
