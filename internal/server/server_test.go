package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-intake/internal/extract"
	"github.com/joseph-ayodele/resume-intake/internal/intake"
	"github.com/joseph-ayodele/resume-intake/internal/llm"
)

type staticExtractor struct{}

func (staticExtractor) Extract(context.Context, string, string) extract.TextExtractionResult {
	return extract.TextExtractionResult{Text: "Jane Doe jane@example.com CGPA 8.7"}
}

type staticRecoverer struct{}

func (staticRecoverer) RecoverFields(context.Context, string) llm.ResumeRecord {
	return llm.ResumeRecord{
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "9876543210",
		CGPA:        "8.7",
		CollegeName: "NIT Trichy",
	}
}

type nopStore struct{}

func (nopStore) EnsureHeader(context.Context) error { return nil }

func (nopStore) AppendRow(context.Context, [5]string) error { return nil }

type nopFetcher struct{}

func (nopFetcher) Download(context.Context, string, string, string) (string, error) {
	return "/tmp/resume.pdf", nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := intake.NewService(nil, intake.Config{KeepDownloads: true},
		staticExtractor{}, staticRecoverer{}, nopStore{}, nopFetcher{}, nil)
	ts := httptest.NewServer(New(svc, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookVerification(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/whatsapp")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookPostReturnsTwiML(t *testing.T) {
	ts := newTestServer(t)

	form := url.Values{}
	form.Set("Body", "Jane Doe, email jane@example.com, CGPA 8.7")

	resp, err := http.PostForm(ts.URL+"/whatsapp", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/xml")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "<Response><Message>")
	assert.Contains(t, body, "Resume processed successfully")
	assert.Contains(t, body, "Jane Doe")
}
