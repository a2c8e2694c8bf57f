package prompt

import (
	"fmt"

	"reelarchitect/models"
)

const userTemplate = "Title: %s\nDescription: %s\nGenerate a viral reel script following the formatting rules."

// ResponseMIMEType is the mime type the generative API is asked to answer with.
const ResponseMIMEType = "application/json"

// Payload is the built prompt: the fixed instruction block plus the user block.
type Payload struct {
	System string
	User   string
}

// Part is one text part of a content block.
type Part struct {
	Text string `json:"text"`
}

// Content is a list of parts, optionally attributed to a role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig carries the output directives for the generative API.
type GenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

// Request is the JSON body of a generateContent call.
type Request struct {
	Contents          []Content        `json:"contents"`
	SystemInstruction Content          `json:"systemInstruction"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
}

// UserBlock formats the user half of the prompt. Values are interpolated verbatim.
func UserBlock(title, description string) string {
	return fmt.Sprintf(userTemplate, title, description)
}

// Build combines the instruction block with the user's title and description.
// It returns false, and builds nothing, when either field is empty.
func Build(req models.GenerationRequest) (Payload, bool) {
	if !req.Ready() {
		return Payload{}, false
	}
	return Payload{
		System: SystemInstruction,
		User:   UserBlock(req.Title, req.Description),
	}, true
}

// Request returns the wire body for the payload.
func (p Payload) Request() Request {
	return Request{
		Contents:          []Content{{Parts: []Part{{Text: p.User}}}},
		SystemInstruction: Content{Parts: []Part{{Text: p.System}}},
		GenerationConfig:  GenerationConfig{ResponseMimeType: ResponseMIMEType},
	}
}
