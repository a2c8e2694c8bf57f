package aiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure.
type Kind string

const (
	KindTransport         Kind = "transport"
	KindMalformedEnvelope Kind = "malformed_envelope"
	KindInvalidJSON       Kind = "invalid_json"
)

// Sentinels for errors.Is matching against a *GenerationError.
var (
	ErrTransport         = errors.New("generative api transport failure")
	ErrMalformedEnvelope = errors.New("generative api response missing candidate text")
	ErrInvalidJSON       = errors.New("generated text is not valid json")
)

// GenerationError is returned by every Generator. Status is the HTTP status for
// transport failures and 0 when no response was received. Err holds the
// underlying cause (network error, json syntax error) when there is one.
type GenerationError struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case KindTransport:
		if e.Status != 0 {
			return fmt.Sprintf("API Error: %d", e.Status)
		}
		if e.Err != nil {
			return fmt.Sprintf("API Error: %v", e.Err)
		}
		return "API Error"
	case KindMalformedEnvelope:
		return ErrMalformedEnvelope.Error()
	case KindInvalidJSON:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", ErrInvalidJSON.Error(), e.Err)
		}
		return ErrInvalidJSON.Error()
	}
	return "generation failed"
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *GenerationError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrMalformedEnvelope:
		return e.Kind == KindMalformedEnvelope
	case ErrInvalidJSON:
		return e.Kind == KindInvalidJSON
	}
	return false
}

func transportError(status int, err error) error {
	return &GenerationError{Kind: KindTransport, Status: status, Err: err}
}

func malformedEnvelope() error {
	return &GenerationError{Kind: KindMalformedEnvelope}
}

func invalidJSON(err error) error {
	return &GenerationError{Kind: KindInvalidJSON, Err: err}
}

// KindOf returns the kind of a generation error, or "" if err is not one.
func KindOf(err error) Kind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}

// ErrEmptyRequest is returned when Generate is called without both a title and a
// description. Callers are expected to gate the call; nothing is sent upstream.
var ErrEmptyRequest = errors.New("title and description are required")
