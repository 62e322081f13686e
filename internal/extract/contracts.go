package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// TextExtractor is Stage 1: file -> text.
//
// Implementations must not fail the request: an unreadable file yields an
// empty-text result with warnings, never an error to the orchestrator.
type TextExtractor interface {
	Extract(ctx context.Context, path, contentType string) TextExtractionResult
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	Provenance constants.Provenance
	Language   string
	Duration   time.Duration
	Warnings   []string
}
