package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// RawResponseCap bounds the diagnostic excerpt attached to a degraded record.
const RawResponseCap = 500

// Engine implements FieldRecoverer over a TextGenerator: one model call per
// invocation, then the deterministic decode chain and sentinel normalization.
type Engine struct {
	gen     TextGenerator
	timeout time.Duration
	logger  *slog.Logger
}

func NewEngine(gen TextGenerator, timeout time.Duration, logger *slog.Logger) *Engine {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{gen: gen, timeout: timeout, logger: logger}
}

// RecoverFields converts arbitrary raw text into a fully populated
// ResumeRecord. The model is invoked at most once; every failure mode
// degrades into a record rather than an error return.
func (e *Engine) RecoverFields(ctx context.Context, text string) ResumeRecord {
	rid := uuid.New().String()

	if strings.TrimSpace(text) == "" {
		e.logger.Warn("llm.recover.empty_input", "req_id", rid)
		rec := allNotAvailable()
		rec.Err = "no text found in resume"
		return rec
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	prompt := BuildExtractionPrompt(text)
	e.logger.Info("llm.recover.start", "req_id", rid, "text_len", len(text), "prompt_len", len(prompt))

	raw, err := e.gen.GenerateText(ctx, prompt)
	if err != nil {
		e.logger.Error("llm.recover.model_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		rec := allNotAvailable()
		rec.Err = err.Error()
		return rec
	}

	mapping, strategy, ok := DecodeFieldsResponse(raw)
	if !ok {
		e.logger.Warn("llm.recover.decode_failed", "req_id", rid,
			"response_len", len(raw), "elapsed_ms", time.Since(start).Milliseconds())
		rec := allNotAvailable()
		rec.RawModelResponse = truncate(raw, RawResponseCap)
		return rec
	}

	rec := fromMapping(mapping)
	e.logger.Info("llm.recover.ok", "req_id", rid, "strategy", strategy,
		"elapsed_ms", time.Since(start).Milliseconds())
	return rec
}

// fromMapping normalizes a decoded mapping: any absent or blank canonical
// field becomes the sentinel, never the empty string.
func fromMapping(m map[string]string) ResumeRecord {
	get := func(field string) string {
		if v, ok := m[field]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return constants.NotAvailable
	}
	return ResumeRecord{
		FullName:    get(constants.FieldFullName),
		Email:       get(constants.FieldEmail),
		PhoneNumber: get(constants.FieldPhoneNumber),
		CGPA:        get(constants.FieldCGPA),
		CollegeName: get(constants.FieldCollegeName),
	}
}

func allNotAvailable() ResumeRecord {
	return ResumeRecord{
		FullName:    constants.NotAvailable,
		Email:       constants.NotAvailable,
		PhoneNumber: constants.NotAvailable,
		CGPA:        constants.NotAvailable,
		CollegeName: constants.NotAvailable,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
