// Package importer turns uploaded JSON files and PDF or DOCX résumés into
// documents ready to be loaded into the editor.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"cv-editor/internal/cv"
	"cv-editor/internal/extract"
	"cv-editor/internal/llm"
	"cv-editor/internal/shared/metrics"
	"cv-editor/internal/shared/telemetry"
)

// MaxTextRunes caps the text sent to the extraction service.
const MaxTextRunes = 30000

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// Result is an imported document plus non-blocking lint findings.
type Result struct {
	Document cv.Document `json:"document"`
	Warnings []string    `json:"warnings,omitempty"`
}

type Pipeline struct {
	extractor llm.Extractor
}

func NewPipeline(extractor llm.Extractor) *Pipeline {
	if extractor == nil {
		extractor = llm.PlaceholderExtractor{}
	}
	return &Pipeline{extractor: extractor}
}

// Truncate keeps at most MaxTextRunes runes of text.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxTextRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxTextRunes])
}

// StripFences removes a Markdown code fence wrapped around a model answer.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// FromJSON decodes an exported document. Any syntax or shape error is
// cv.ErrValidation.
func (p *Pipeline) FromJSON(raw []byte) (Result, error) {
	doc, err := cv.Decode(raw)
	if err != nil {
		metrics.IncImport("json", "error")
		return Result{}, fmt.Errorf("import json: %w", err)
	}
	res := Result{Document: doc, Warnings: Lint(raw)}
	if n := res.Document.EnsureIDs(); n > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("assigned %d missing or duplicate ids", n))
	}
	metrics.IncImport("json", "ok")
	return res, nil
}

// FromFile extracts text from a PDF or DOCX payload and parses it.
func (p *Pipeline) FromFile(ctx context.Context, data []byte, mimeType, fileName string) (Result, error) {
	text, err := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		metrics.IncImport("file", "error")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: read document: %v", cv.ErrExtraction, err)
	}
	res, err := p.FromText(ctx, text)
	metrics.IncImport("file", metrics.Result(err))
	return res, err
}

// FromText sends extracted text to the structured extraction service and
// decodes its answer.
func (p *Pipeline) FromText(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: no text found in document", cv.ErrExtraction)
	}
	text = Truncate(text)

	answer, err := p.extractor.ExtractDocument(ctx, text)
	if err != nil {
		telemetry.Error("import.extract_failed", map[string]any{"err": err, "text_runes": utf8.RuneCountInString(text)})
		return Result{}, fmt.Errorf("%w: %w", cv.ErrExtraction, err)
	}

	raw := []byte(StripFences(answer))
	if !json.Valid(raw) {
		return Result{}, fmt.Errorf("%w: extraction service returned invalid JSON", cv.ErrExtraction)
	}
	doc, err := cv.Decode(raw)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", cv.ErrExtraction, err)
	}

	res := Result{Document: doc, Warnings: Lint(raw)}
	if n := res.Document.EnsureIDs(); n > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("assigned %d missing or duplicate ids", n))
	}
	telemetry.Info("import.extracted", map[string]any{
		"experiences": len(doc.Experiences),
		"warnings":    len(res.Warnings),
	})
	return res, nil
}
