package llm

import (
	"context"
	"errors"
	"regexp"

	"glucoguard/internal/shared"
)

// ErrNoContent is returned when a model answers without any text.
var ErrNoContent = errors.New("no content generated")

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// VisionGenerator generates text from a prompt and a single image.
type VisionGenerator interface {
	GenerateFromImage(ctx context.Context, prompt, mimeType string, image []byte) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON returns the outermost {...} span of a model answer, which
// drops code fences and chatter around it. The input is returned as is
// when no object is found.
func ExtractJSON(text string) string {
	if m := jsonObject.FindString(text); m != "" {
		return m
	}
	return text
}
