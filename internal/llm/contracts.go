package llm

import (
	"context"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// ResumeRecord is the canonical output unit: always fully populated, with
// constants.NotAvailable standing in for anything the model could not find.
type ResumeRecord struct {
	FullName    string
	Email       string
	PhoneNumber string
	CGPA        string
	CollegeName string

	// RawModelResponse carries a truncated diagnostic excerpt, populated only
	// when every decode strategy failed.
	RawModelResponse string

	// Err marks an error-shaped record (no usable text, or the model call
	// itself failed). When set, the field values are meaningless.
	Err string
}

// IsError reports whether the record is error-shaped.
func (r ResumeRecord) IsError() bool { return r.Err != "" }

// Columns returns the five canonical values in fixed row-store column order.
func (r ResumeRecord) Columns() [5]string {
	return [5]string{r.FullName, r.Email, r.PhoneNumber, r.CGPA, r.CollegeName}
}

// Get returns the value for a canonical field name.
func (r ResumeRecord) Get(field string) string {
	switch field {
	case constants.FieldFullName:
		return r.FullName
	case constants.FieldEmail:
		return r.Email
	case constants.FieldPhoneNumber:
		return r.PhoneNumber
	case constants.FieldCGPA:
		return r.CGPA
	case constants.FieldCollegeName:
		return r.CollegeName
	}
	return ""
}

// TextGenerator is the generative-model collaborator: one prompt in, one
// free-text response out. Not guaranteed to be valid JSON.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// FieldRecoverer is the interface the orchestrator depends on.
type FieldRecoverer interface {
	RecoverFields(ctx context.Context, text string) ResumeRecord
}
