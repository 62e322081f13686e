package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// pdfTextReader reads the embedded text layer of a PDF. Split out so tests
// can stub it the same way Runner stubs the OCR binaries.
type pdfTextReader interface {
	ReadText(path string) (text string, pages int, err error)
}

type textLayerReader struct{}

// ReadText concatenates per-page text in page order with no separator.
// ledongthuc/pdf panics on some malformed files, so the recover here is part
// of the contract: a broken text layer reads as an error, never a crash.
func (textLayerReader) ReadText(path string) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text layer: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	pages = r.NumPage()
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
	}
	return b.String(), pages, nil
}

// extractPDF reads the text layer first and only rasterizes for OCR when the
// layer is effectively empty. OCR failure is downgraded to a warning: the
// direct result is kept, however short.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{Provenance: constants.ProvenancePDFDirect, Language: e.cfg.TesseractLang}

	text, pages, err := e.pdfText.ReadText(path)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		e.logger.Warn("ocr.pdf.text_layer_failed", "path", path, "error", err)
	}
	res.Text = text
	res.Pages = pages

	if len(strings.TrimSpace(text)) >= PDFTextMinLength {
		return res, nil
	}

	e.logger.Info("ocr.pdf.fallback", "path", path, "direct_len", len(strings.TrimSpace(text)))
	ocrText, ocrPages, warns, ocrErr := e.pdfToOCR(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if ocrErr != nil {
		// toolchain missing or rasterization failed: keep the direct result
		res.Warnings = append(res.Warnings, ocrErr.Error())
		e.logger.Warn("ocr.pdf.fallback_failed", "path", path, "error", ocrErr)
		return res, nil
	}
	res.Text = ocrText
	res.Pages = ocrPages
	res.Provenance = constants.ProvenancePDFOCR
	return res, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "ri-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("ocr.pdf.tmp_cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w, err := e.tesseractOCR(ctx, img, false)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		b.WriteString(txt)
		warns = append(warns, w...)
	}
	return b.String(), len(matches), warns, nil
}
