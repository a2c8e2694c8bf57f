// Package presentation turns session state into the view the page renders.
// Everything here except the copy tracker is a pure function of its input.
package presentation

import (
	"fmt"
	"strings"
	"time"

	"reelarchitect/internal/tags"
	"reelarchitect/models"
)

// DefaultErrorMessage is shown when a failure carries no message of its own.
const DefaultErrorMessage = "Failed to generate script. Please try again."

// Copy keys for the two caption buttons. Segment keys come from VisualKey and AudioKey.
const (
	KeyInstagram = "insta"
	KeyYoutube   = "yt"
)

func VisualKey(i int) string { return fmt.Sprintf("vis-%d", i) }
func AudioKey(i int) string  { return fmt.Sprintf("aud-%d", i) }

// State is everything the page depends on.
type State struct {
	Title       string
	Description string
	Result      *models.GenerationResult
	History     []models.HistoryEntry
	Loading     bool
	Err         error
	// ActiveID is the history entry currently loaded, if any.
	ActiveID string
	// Auth is the sign-in state name (see auth.State).
	Auth string
	// Copied holds the keys whose copy indicator is currently showing.
	Copied map[string]bool
}

// LoadEntry returns s with the active title, description and result replaced
// by the entry's stored values. It neither generates nor touches history.
func (s State) LoadEntry(e models.HistoryEntry) State {
	s.Title = e.Title
	s.Description = e.Description
	result := e.Result
	s.Result = &result
	s.Err = nil
	s.ActiveID = e.ID
	return s
}

// CopyButton is one keyed copy action and whether its indicator is showing.
type CopyButton struct {
	Key    string
	Text   string
	Copied bool
}

type SegmentView struct {
	Index        int
	Time         string
	SectionType  string
	VisualPrompt string
	TextOverlay  string
	AudioScript  string
	Audio        []tags.Token
	CopyVisual   CopyButton
	CopyAudio    CopyButton
}

type ResultView struct {
	HookStrategy    string
	TitleSuggestion string
	CopyInstagram   CopyButton
	CopyYoutube     CopyButton
	Segments        []SegmentView
}

type HistoryItem struct {
	ID          string
	Title       string
	Description string
	CreatedAt   string
	Active      bool
}

type View struct {
	Title       string
	Description string
	Loading     bool
	CanGenerate bool
	Error       string
	Auth        string
	Result      *ResultView
	History     []HistoryItem
}

// Build derives the view for s.
func Build(s State) View {
	v := View{
		Title:       s.Title,
		Description: s.Description,
		Loading:     s.Loading,
		Auth:        s.Auth,
		CanGenerate: !s.Loading && strings.TrimSpace(s.Title) != "" && strings.TrimSpace(s.Description) != "",
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
		if v.Error == "" {
			v.Error = DefaultErrorMessage
		}
	}
	if s.Result != nil {
		v.Result = buildResult(*s.Result, s.Copied)
	}
	v.History = BuildHistory(s.History, s.ActiveID)
	return v
}

// BuildHistory derives the sidebar rows for entries, marking activeID.
func BuildHistory(entries []models.HistoryEntry, activeID string) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			CreatedAt:   formatCreatedAt(e.CreatedAt),
			Active:      e.ID != "" && e.ID == activeID,
		})
	}
	return items
}

func buildResult(r models.GenerationResult, copied map[string]bool) *ResultView {
	rv := &ResultView{
		HookStrategy:    r.HookStrategy,
		TitleSuggestion: r.TitleSuggestion,
		CopyInstagram:   CopyButton{Key: KeyInstagram, Text: r.InstagramCaption, Copied: copied[KeyInstagram]},
		CopyYoutube:     CopyButton{Key: KeyYoutube, Text: r.YoutubeShortsCaption, Copied: copied[KeyYoutube]},
		Segments:        make([]SegmentView, 0, len(r.Segments)),
	}
	for i, seg := range r.Segments {
		rv.Segments = append(rv.Segments, SegmentView{
			Index:        i,
			Time:         seg.Time,
			SectionType:  seg.SectionType,
			VisualPrompt: seg.VisualPrompt,
			TextOverlay:  seg.TextOverlay,
			AudioScript:  seg.AudioScript,
			Audio:        tags.Collect(seg.AudioScript),
			CopyVisual:   CopyButton{Key: VisualKey(i), Text: seg.VisualPrompt, Copied: copied[VisualKey(i)]},
			CopyAudio:    CopyButton{Key: AudioKey(i), Text: seg.AudioScript, Copied: copied[AudioKey(i)]},
		})
	}
	return rv
}

func formatCreatedAt(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 15:04")
}
