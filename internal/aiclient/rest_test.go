package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelarchitect/internal/prompt"
	"reelarchitect/models"
)

const threeSegmentScript = `{
  "hook_strategy": "Existential Dread: silence is the scariest answer.",
  "title_suggestion": "Nobody Is Out There",
  "instagram_caption": "The universe is quiet.\n#space #aliens",
  "youtube_shorts_caption": "Why is space so quiet? #space #aliens #fermi",
  "segments": [
    {"time": "0:00-0:05", "section_type": "The Hook", "visual_prompt": "Wide angle empty galaxy", "text_overlay": "WHERE?", "audio_script": "[whispers] Where is everybody?"},
    {"time": "0:05-0:20", "section_type": "The Build", "visual_prompt": "Macro shot of a dead planet", "text_overlay": "THE FILTER", "audio_script": "[deep voice] Something stops them. [pause] Every time."},
    {"time": "0:20-0:30", "section_type": "The Twist", "visual_prompt": "Low angle, Earth at night", "text_overlay": "US?", "audio_script": "[terrified] And it might be ahead of you."}
  ]
}`

func envelopeWith(text string) string {
	raw, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"parts":[{"text":` + string(raw) + `}],"role":"model"}}]}`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRESTClient(Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Logger:  logger,
	})
}

var greatFilter = models.GenerationRequest{
	Title:       "The Great Filter",
	Description: "Explain why we haven't found aliens",
}

func TestGenerateSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody prompt.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, envelopeWith(threeSegmentScript))
	})

	result, err := client.Generate(context.Background(), greatFilter)
	require.NoError(t, err)

	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "The Great Filter")
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "Explain why we haven't found aliens")
	assert.Equal(t, prompt.SystemInstruction, gotBody.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)

	require.Len(t, result.Segments, 3)
	assert.Equal(t, "The Hook", result.Segments[0].SectionType)
	assert.Equal(t, "The Build", result.Segments[1].SectionType)
	assert.Equal(t, "The Twist", result.Segments[2].SectionType)
	assert.Equal(t, "Nobody Is Out There", result.TitleSuggestion)
}

func TestGenerateTransportStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429}}`)
	})

	_, err := client.Generate(context.Background(), greatFilter)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, http.StatusTooManyRequests, genErr.Status)
	assert.Equal(t, "API Error: 429", err.Error())
}

func TestGenerateTransportNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewRESTClient(Config{APIKey: "k", BaseURL: url, Timeout: time.Second})
	_, err := client.Generate(context.Background(), greatFilter)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestGenerateTimeoutIsTransport(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	client.cfg.Timeout = 50 * time.Millisecond
	defer close(release)

	_, err := client.Generate(context.Background(), greatFilter)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGenerateMalformedEnvelope(t *testing.T) {
	bodies := map[string]string{
		"no candidates":     `{}`,
		"empty candidates":  `{"candidates":[]}`,
		"no content":        `{"candidates":[{}]}`,
		"no parts":          `{"candidates":[{"content":{"parts":[]}}]}`,
		"part without text": `{"candidates":[{"content":{"parts":[{"inlineData":{}}]}}]}`,
		"not json":          `<html>oops</html>`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			result, err := client.Generate(context.Background(), greatFilter)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrMalformedEnvelope)
			assert.NotErrorIs(t, err, ErrInvalidJSON)
		})
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, envelopeWith(`{"hook_strategy": "unterminated`))
	})

	_, err := client.Generate(context.Background(), greatFilter)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJSON)

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr), "parse failure reason should be retrievable")
	assert.NotNil(t, errors.Unwrap(err))
}

func TestGenerateEmptyTextIsInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, envelopeWith(""))
	})
	_, err := client.Generate(context.Background(), greatFilter)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestGenerateEmptyRequestMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	_, err := client.Generate(context.Background(), models.GenerationRequest{Title: "only"})
	assert.ErrorIs(t, err, ErrEmptyRequest)
	assert.Zero(t, calls.Load())
}

func TestGenerateNoRetry(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := client.Generate(context.Background(), greatFilter)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(1), calls.Load())
}

func TestParseResultMissingSegments(t *testing.T) {
	result, err := ParseResult(`{"hook_strategy":"x"}`)
	require.NoError(t, err)
	assert.NotNil(t, result.Segments)
	assert.Empty(t, result.Segments)
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(context.Background(), "", Config{})
	require.NoError(t, err)
	assert.IsType(t, &RESTClient{}, g)

	_, err = NewGenerator(context.Background(), "carrier-pigeon", Config{})
	assert.Error(t, err)
}
