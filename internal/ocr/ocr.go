package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// Thresholds for deciding that a direct extraction attempt failed and a
// fallback should run. Stripped lengths, in bytes.
const (
	PDFTextMinLength   = 20
	ImageTextMinLength = 10
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	// Retry configuration for sparse image OCR output: assume a single
	// uniform block of text (tesseract --psm 6) with the LSTM engine.
	RetryPSM int // default 6
	RetryOEM int // default 3
}

type ExtractionResult struct {
	Text       string
	Pages      int
	Provenance constants.Provenance
	Language   string
	Duration   time.Duration
	Warnings   []string
}

type Extractor struct {
	cfg     Config
	runner  Runner
	pdfText pdfTextReader
	logger  *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.RetryPSM <= 0 {
		cfg.RetryPSM = 6
	}
	if cfg.RetryOEM <= 0 {
		cfg.RetryOEM = 3
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, pdfText: textLayerReader{}, logger: logger}
}

// Extract picks a strategy based on the declared content type, falling back
// to the file extension when the type is unrecognized.
func (e *Extractor) Extract(ctx context.Context, path, contentType string) (ExtractionResult, error) {
	start := time.Now()
	format := constants.MapExtToFormat(constants.ExtFromContentType(contentType))
	if format == "" {
		format = constants.MapExtToFormat(filepath.Ext(path))
	}
	e.logger.Debug("ocr.extract.start", "path", path, "content_type", contentType, "format", string(format))

	switch format {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("ocr.extract.unsupported", "content_type", contentType, "path", path)
		return ExtractionResult{}, fmt.Errorf("unsupported content type: %q", contentType)
	}
}
