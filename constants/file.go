package constants

import "strings"

// Format is the coarse media format the extractor dispatches on.
type Format string

const (
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
)

// AllowedExtensions holds the file extensions the intake pipeline recognizes.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its Format, or "" if unknown.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return ""
	}
}

// ExtFromContentType derives a file extension from a declared MIME type.
// Recognized subtypes are normalized; anything else passes through verbatim.
func ExtFromContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.Contains(ct, "pdf"):
		return "pdf"
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return "jpg"
	}
	if i := strings.LastIndex(ct, "/"); i >= 0 && i+1 < len(ct) {
		return ct[i+1:]
	}
	return ct
}
