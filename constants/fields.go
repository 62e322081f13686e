package constants

import "strings"

// Canonical field names. These double as the row-store header strings, so
// their exact spelling and order are a compatibility contract.
const (
	FieldFullName    = "Full Name"
	FieldEmail       = "Email"
	FieldPhoneNumber = "Phone Number"
	FieldCGPA        = "CGPA"
	FieldCollegeName = "BTech College Name"
)

// NotAvailable is the sentinel for "field not found", never the empty string.
const NotAvailable = "N/A"

// CanonicalFields lists the five field names in row-store column order.
var CanonicalFields = [5]string{
	FieldFullName,
	FieldEmail,
	FieldPhoneNumber,
	FieldCGPA,
	FieldCollegeName,
}

// ResumeKeywords drives the text-path heuristic: a message containing any of
// these (case-insensitive) is treated as resume-like.
var ResumeKeywords = []string{
	"email", "@", "mobile", "phone", "cgpa", "college", "b.tech", "education",
}

// LooksLikeResume reports whether body contains any resume keyword.
func LooksLikeResume(body string) bool {
	low := strings.ToLower(body)
	for _, kw := range ResumeKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}
