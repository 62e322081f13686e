package constants

// Provenance records which extraction path produced a given text.
type Provenance string

const (
	ProvenancePDFDirect    Provenance = "pdf_direct"
	ProvenancePDFOCR       Provenance = "pdf_ocr"
	ProvenanceImageOCR     Provenance = "image_ocr"
	ProvenancePlainMessage Provenance = "plain_message"
)
