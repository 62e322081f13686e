package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-intake/constants"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.response, f.err
}

func TestRecoverFields_EmptyInput(t *testing.T) {
	gen := &fakeGenerator{}
	eng := NewEngine(gen, time.Second, nil)

	rec := eng.RecoverFields(context.Background(), "   \n\t ")

	assert.True(t, rec.IsError())
	assert.Equal(t, "no text found in resume", rec.Err)
	assert.Equal(t, 0, gen.calls, "the model must not be invoked for empty input")
	for _, v := range rec.Columns() {
		assert.Equal(t, constants.NotAvailable, v)
	}
}

func TestRecoverFields_ModelError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	eng := NewEngine(gen, time.Second, nil)

	rec := eng.RecoverFields(context.Background(), "some resume text with email and cgpa")

	assert.True(t, rec.IsError())
	assert.Equal(t, "quota exceeded", rec.Err)
	assert.Equal(t, 1, gen.calls)
	for _, v := range rec.Columns() {
		assert.Equal(t, constants.NotAvailable, v)
	}
}

func TestRecoverFields_Success(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"Full Name": "Jane Doe",
		"Email": "jane@example.com",
		"Phone Number": "9876543210",
		"CGPA": "8.7",
		"BTech College Name": "NIT Trichy"
	}`}
	eng := NewEngine(gen, time.Second, nil)

	rec := eng.RecoverFields(context.Background(), "Jane Doe jane@example.com ...")

	require.False(t, rec.IsError())
	assert.Equal(t, [5]string{"Jane Doe", "jane@example.com", "9876543210", "8.7", "NIT Trichy"}, rec.Columns())
	assert.Contains(t, gen.prompt, "Jane Doe jane@example.com", "resume text is embedded in the prompt")
}

func TestRecoverFields_BlankAndMissingFieldsGetSentinel(t *testing.T) {
	gen := &fakeGenerator{response: `{"Full Name": "Jane Doe", "Email": "  ", "CGPA": null}`}
	eng := NewEngine(gen, time.Second, nil)

	rec := eng.RecoverFields(context.Background(), "resume body")

	require.False(t, rec.IsError())
	assert.Equal(t, "Jane Doe", rec.FullName)
	assert.Equal(t, constants.NotAvailable, rec.Email, "blank values normalize to the sentinel")
	assert.Equal(t, constants.NotAvailable, rec.CGPA)
	assert.Equal(t, constants.NotAvailable, rec.PhoneNumber)
	assert.Equal(t, constants.NotAvailable, rec.CollegeName)
}

func TestRecoverFields_UndecodableResponse(t *testing.T) {
	gen := &fakeGenerator{response: "I am sorry, I cannot help with that request."}
	eng := NewEngine(gen, time.Second, nil)

	rec := eng.RecoverFields(context.Background(), "resume body")

	assert.False(t, rec.IsError(), "a decode failure degrades, it is not error-shaped")
	assert.Equal(t, gen.response, rec.RawModelResponse)
	for _, v := range rec.Columns() {
		assert.Equal(t, constants.NotAvailable, v)
	}
}

func TestRecoverFields_RawExcerptIsCapped(t *testing.T) {
	gen := &fakeGenerator{response: strings.Repeat("no json here ", 100)}
	eng := NewEngine(gen, time.Second, nil)

	rec := eng.RecoverFields(context.Background(), "resume body")

	assert.Len(t, rec.RawModelResponse, RawResponseCap)
	assert.True(t, strings.HasPrefix(gen.response, rec.RawModelResponse))
}

func TestBuildExtractionPrompt_NamesEveryField(t *testing.T) {
	prompt := BuildExtractionPrompt("resume body here")
	for _, field := range constants.CanonicalFields {
		assert.Contains(t, prompt, field)
	}
	assert.Contains(t, prompt, "resume body here")
}
