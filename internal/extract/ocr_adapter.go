package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/resume-intake/internal/ocr"
)

// OCRAdapter wraps the OCR engine and enforces the never-fatal policy:
// engine errors are logged and converted into an empty-text result.
type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

func (a *OCRAdapter) Extract(ctx context.Context, path, contentType string) TextExtractionResult {
	r, err := a.e.Extract(ctx, path, contentType)
	res := TextExtractionResult{
		Text:       r.Text,
		Pages:      r.Pages,
		Provenance: r.Provenance,
		Language:   r.Language,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
	}
	if err != nil {
		a.logger.Error("extract.failed", "path", path, "content_type", contentType, "error", err)
		res.Text = ""
		res.Warnings = append(res.Warnings, err.Error())
	}
	return res
}
