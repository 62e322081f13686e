package llm

import "strings"

// BuildExtractionPrompt composes the fixed field-recovery instruction prompt.
// It enumerates exactly the five target fields, forbids extracting anything
// else, pushes the model to scan the whole input without positional bias, and
// demands a bare JSON object with no prose or markdown fencing. The input
// text is embedded verbatim.
func BuildExtractionPrompt(text string) string {
	parts := []string{
		"You are a resume parser. Extract ONLY the following information from the resume text and return ONLY a valid JSON object with no additional text or comments.",
		"",
		"Required JSON structure:",
		"{",
		`    "Full Name": "student's full name or N/A",`,
		`    "Email": "email address or N/A",`,
		`    "Phone Number": "mobile/phone number or N/A",`,
		`    "CGPA": "CGPA score (e.g., 9.47) or N/A",`,
		`    "BTech College Name": "college/institute name where BTech is being pursued or N/A"`,
		"}",
		"",
		"Critical instructions:",
		"- Extract ONLY these 5 fields. Do not extract skills, experience, or any other information.",
		"- Read the ENTIRE resume text from FIRST character to LAST character - scan every line thoroughly.",
		"- Search EVERYWHERE in the text: the header at the top, contact sections, footers at the very bottom, middle paragraphs, tables - all are equally valid sources.",
		"- Look for ANY email pattern (@ symbol) anywhere in the document.",
		"- Look for ANY phone number pattern (digits, with or without spaces, hyphens, parentheses) anywhere in the document.",
		"- For CGPA: search in 'Academic Details', 'Education', 'B.Tech', or anywhere CGPA is mentioned.",
		"- For College Name: search in 'Academic Details', 'Education', the B.Tech section, or the institution name anywhere.",
		"- For Name: usually at the very top, but search throughout if not found.",
		"- If information is in tabular/structured format, extract it from there too.",
		"",
		"Resume Text:",
		text,
		"",
		"Return ONLY the JSON object with no markdown, no explanations, no code blocks. Just pure JSON.",
	}
	return strings.Join(parts, "\n")
}
