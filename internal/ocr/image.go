package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// extractImage runs tesseract with the default configuration, retrying once
// with the uniform-text-block configuration when the first pass is sparse.
// The longer stripped result wins; some string is always returned.
func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{
		Pages:      1,
		Provenance: constants.ProvenanceImageOCR,
		Language:   e.cfg.TesseractLang,
	}

	text, warns, err := e.tesseractOCR(ctx, path, false)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		e.logger.Warn("ocr.image.default_pass_failed", "path", path, "error", err)
	}
	res.Text = text

	if len(strings.TrimSpace(text)) >= ImageTextMinLength {
		return res, nil
	}

	e.logger.Info("ocr.image.retry", "path", path, "first_len", len(strings.TrimSpace(text)),
		"psm", e.cfg.RetryPSM, "oem", e.cfg.RetryOEM)
	retryText, retryWarns, retryErr := e.tesseractOCR(ctx, path, true)
	res.Warnings = append(res.Warnings, retryWarns...)
	if retryErr != nil {
		res.Warnings = append(res.Warnings, retryErr.Error())
		return res, nil
	}
	if len(strings.TrimSpace(retryText)) > len(strings.TrimSpace(res.Text)) {
		res.Text = retryText
	}
	return res, nil
}

// tesseractOCR shells out to tesseract; retryConfig selects the alternate
// single-block configuration.
func (e *Extractor) tesseractOCR(ctx context.Context, path string, retryConfig bool) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if retryConfig {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.RetryOEM), "--psm", fmt.Sprintf("%d", e.cfg.RetryPSM))
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}
