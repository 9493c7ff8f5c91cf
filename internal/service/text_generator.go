package service

import "context"

// TextGenerator is the external language-model capability consumed by the
// task extractor and the cover-letter generator. Both the Gemini and the
// OpenRouter backends satisfy it; a nil TextGenerator means the capability is
// unavailable and callers run in fallback mode.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
