package intake

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/llm"
)

// Reply texts sent back over the messaging channel. The handler always
// produces exactly one of these per inbound event.
const (
	replySendResume = "📄 Please send a resume as text, PDF, or image to extract details."

	replyNotResume = "📄 Please send a resume text or PDF/image. The message should contain: name, email, phone, CGPA, and college name."

	replyNoText = "❌ Could not extract text from the resume. Please ensure the file is not corrupted."

	replyPersistFailed = "❌ Could not save the extracted resume data. Please try again later."
)

func downloadErrorReply(statusCode int) string {
	return fmt.Sprintf("❌ Error downloading resume: HTTP %d. Check messaging credentials.", statusCode)
}

func downloadGenericErrorReply(err error) string {
	return fmt.Sprintf("❌ Error downloading resume: %v", err)
}

func processingErrorReply(msg string) string {
	return fmt.Sprintf("❌ Error processing resume: %s", msg)
}

func successReply(rec llm.ResumeRecord) string {
	var b strings.Builder
	b.WriteString("✅ Resume processed successfully!\n\nExtracted info:\n")
	for i, field := range constants.CanonicalFields {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(rec.Get(field))
	}
	return b.String()
}
