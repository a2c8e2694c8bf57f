package models

import "strings"

// GenerationRequest is the user input for one script generation.
// Both fields are required; neither is sanitized before being sent upstream.
type GenerationRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Ready reports whether both fields hold more than whitespace.
func (r GenerationRequest) Ready() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Description) != ""
}

// ScriptSegment is one timestamped unit of the generated script.
type ScriptSegment struct {
	Time         string `json:"time"` // e.g. "0:00-0:05"
	SectionType  string `json:"section_type"`
	VisualPrompt string `json:"visual_prompt"`
	TextOverlay  string `json:"text_overlay"`
	// AudioScript holds sentences interleaved with [tag] delivery markers.
	AudioScript string `json:"audio_script"`
}

// GenerationResult is the structured script returned by the generative API.
// Segments are in timeline order.
type GenerationResult struct {
	HookStrategy         string          `json:"hook_strategy"`
	TitleSuggestion      string          `json:"title_suggestion"`
	InstagramCaption     string          `json:"instagram_caption"`
	YoutubeShortsCaption string          `json:"youtube_shorts_caption"`
	Segments             []ScriptSegment `json:"segments"`
}
