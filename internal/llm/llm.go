package llm

import (
	"context"
	_ "embed"
	"errors"
)

//go:embed prompts/extract_cv.txt
var extractPrompt string

// Extractor turns plain résumé text into a JSON document string.
type Extractor interface {
	ExtractDocument(ctx context.Context, text string) (string, error)
}

// SystemPrompt describes the expected document shape to the model.
func SystemPrompt() string {
	return extractPrompt
}

// UserPrompt wraps the extracted text.
func UserPrompt(text string) string {
	return "Parse ce CV :\n\n" + text
}

// ErrNotConfigured is returned by the placeholder extractor.
var ErrNotConfigured = errors.New("LLM extraction not configured")

// PlaceholderExtractor is used when no provider is configured.
type PlaceholderExtractor struct{}

// ExtractDocument returns ErrNotConfigured.
func (PlaceholderExtractor) ExtractDocument(ctx context.Context, text string) (string, error) {
	_ = ctx
	_ = text
	return "", ErrNotConfigured
}
